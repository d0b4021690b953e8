package places

import (
	"context"
	"errors"

	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/model/geo"
	geoservice "github.com/tripmate/backend/internal/service/geo"
)

// Source tells where a search result came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceSample   Source = "sample"
)

// Result is a ranked, truncated search outcome.
type Result struct {
	Places []geo.Place
	Source Source
}

// Searcher runs nearby searches for one Surface, substituting the surface's
// sample catalog whenever the provider cannot deliver.
type Searcher struct {
	provider Provider
	surface  Surface
}

// NewSearcher creates a Searcher. provider may be nil, in which case every
// search is served from the sample catalog.
func NewSearcher(provider Provider, surface Surface) *Searcher {
	return &Searcher{provider: provider, surface: surface}
}

// Surface returns the surface this searcher serves.
func (s *Searcher) Surface() Surface {
	return s.surface
}

// Search returns at most Surface.Limit places ranked by distance. It never
// returns an empty list: provider problems fall back to sample data.
func (s *Searcher) Search(ctx context.Context, q Query) Result {
	places, err := s.fromProvider(ctx, q)
	source := SourceProvider
	if err != nil {
		event := log.Warn()
		if errors.Is(err, ErrNoCredential) {
			event = log.Debug()
		}
		event.Err(err).Str("surface", s.surface.Name).Str("category", q.Category).Msg("using sample places")

		places = s.surface.Catalog(q.Center, q.Category)
		source = SourceSample
	}

	return Result{
		Places: truncate(Rank(places), s.surface.Limit),
		Source: source,
	}
}

func (s *Searcher) fromProvider(ctx context.Context, q Query) ([]geo.Place, error) {
	if s.provider == nil {
		return nil, ErrNoCredential
	}

	raw, err := s.provider.Nearby(ctx, q)
	if err != nil {
		return nil, err
	}

	usable := make([]geo.Place, 0, len(raw))
	for _, place := range raw {
		pos, ok := place.Position()
		if !ok {
			continue
		}
		place.Distance = geoservice.Distance(q.Center, pos)
		usable = append(usable, place)
	}

	if len(usable) == 0 {
		return nil, ErrNoResults
	}
	return usable, nil
}
