package category

// Category is a place-type option exposed to the frontend.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Well-known categories with dedicated sample catalogs.
const (
	Restaurant        = "restaurant"
	TouristAttraction = "tourist_attraction"
	Hotel             = "hotel"
)

// Seed provides the place types offered by the search page.
func Seed() []Category {
	return []Category{
		{Value: TouristAttraction, Label: "관광지"},
		{Value: Restaurant, Label: "레스토랑"},
		{Value: Hotel, Label: "호텔"},
		{Value: "museum", Label: "박물관"},
		{Value: "park", Label: "공원"},
		{Value: "shopping_mall", Label: "쇼핑몰"},
		{Value: "cafe", Label: "카페"},
		{Value: "bar", Label: "바"},
		{Value: "movie_theater", Label: "영화관"},
		{Value: "amusement_park", Label: "놀이공원"},
	}
}
