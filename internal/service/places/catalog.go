package places

import (
	"github.com/tripmate/backend/internal/model/category"
	"github.com/tripmate/backend/internal/model/geo"
)

// Catalog supplies built-in sample places when no provider data is available.
type Catalog func(center geo.Coordinate, placeType string) []geo.Place

// Surface is one entry point's view of nearby search: how many results it
// returns and which sample catalog backs it.
type Surface struct {
	Name    string
	Limit   int
	Catalog Catalog
	// MapZoom is the initial zoom of rendered maps.
	MapZoom int
}

// GeneralSurface backs the stand-alone search page.
var GeneralSurface = Surface{
	Name:    "general",
	Limit:   10,
	Catalog: GeneralCatalog,
	MapZoom: 13,
}

// ChatSurface backs the chat assistant's place search.
var ChatSurface = Surface{
	Name:    "chat",
	Limit:   5,
	Catalog: ChatCatalog,
	MapZoom: 14,
}

type generalSample struct {
	name      string
	address   string
	rating    float64
	types     []string
	latOffset float64
	lngOffset float64
	distance  float64
}

var generalSamples = []generalSample{
	{"한강공원", "서울특별시 영등포구 여의도동", 4.5, []string{"park", category.TouristAttraction}, 0.01, 0.01, 1.2},
	{"남산타워", "서울특별시 용산구 남산공원길", 4.3, []string{category.TouristAttraction, "point_of_interest"}, -0.008, 0.005, 2.1},
	{"경복궁", "서울특별시 종로구 사직로", 4.7, []string{category.TouristAttraction, "museum"}, 0.015, -0.003, 3.5},
	{"홍대거리", "서울특별시 마포구 홍대로", 4.2, []string{category.TouristAttraction, "shopping"}, -0.012, -0.008, 4.2},
	{"동대문디자인플라자", "서울특별시 중구 을지로", 4.0, []string{category.TouristAttraction, "shopping"}, 0.018, 0.002, 5.1},
}

// GeneralCatalog returns the five generic sample places positioned around
// center. The list is the same for every place type.
func GeneralCatalog(center geo.Coordinate, _ string) []geo.Place {
	places := make([]geo.Place, 0, len(generalSamples))
	for _, s := range generalSamples {
		place := geo.Place{
			Name:     s.name,
			Address:  s.address,
			Rating:   s.rating,
			Types:    append([]string(nil), s.types...),
			Distance: s.distance,
		}
		places = append(places, place.WithPosition(geo.Coordinate{
			Latitude:  center.Latitude + s.latOffset,
			Longitude: center.Longitude + s.lngOffset,
		}))
	}
	return places
}

var chatSamples = map[string][]geo.Place{
	category.Restaurant: {
		{Name: "맛있는 파스타", Address: "강남구 테헤란로", Rating: 4.5, Distance: 0.3},
		{Name: "이탈리안 레스토랑", Address: "강남구 역삼동", Rating: 4.2, Distance: 0.5},
		{Name: "고급 스테이크하우스", Address: "강남구 삼성동", Rating: 4.7, Distance: 0.8},
	},
	category.TouristAttraction: {
		{Name: "남산타워", Address: "용산구 남산공원길", Rating: 4.3, Distance: 2.1},
		{Name: "경복궁", Address: "종로구 사직로", Rating: 4.7, Distance: 3.5},
		{Name: "한강공원", Address: "영등포구 여의도동", Rating: 4.5, Distance: 1.2},
	},
	category.Hotel: {
		{Name: "그랜드 호텔", Address: "강남구 테헤란로", Rating: 4.6, Distance: 0.4},
		{Name: "비즈니스 호텔", Address: "강남구 역삼동", Rating: 4.1, Distance: 0.6},
		{Name: "리조트 호텔", Address: "강남구 삼성동", Rating: 4.8, Distance: 1.0},
	},
}

// ChatCatalog returns three position-less sample places for placeType.
// Unknown types get the restaurant set.
func ChatCatalog(_ geo.Coordinate, placeType string) []geo.Place {
	samples, ok := chatSamples[placeType]
	if !ok {
		samples = chatSamples[category.Restaurant]
	}

	places := make([]geo.Place, len(samples))
	for i, s := range samples {
		s.Types = []string{}
		places[i] = s
	}
	return places
}
