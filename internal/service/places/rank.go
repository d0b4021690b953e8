package places

import (
	"sort"

	"github.com/tripmate/backend/internal/model/geo"
)

// Rank returns a copy of places sorted by ascending distance. Equal
// distances keep their original relative order.
func Rank(places []geo.Place) []geo.Place {
	ranked := append([]geo.Place(nil), places...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked
}

func truncate(places []geo.Place, limit int) []geo.Place {
	if limit > 0 && len(places) > limit {
		return places[:limit]
	}
	return places
}
