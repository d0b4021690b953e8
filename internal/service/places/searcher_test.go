package places

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/backend/internal/model/category"
	"github.com/tripmate/backend/internal/model/geo"
)

type stubProvider struct {
	places []geo.Place
	err    error
	calls  int
}

func (p *stubProvider) Nearby(_ context.Context, _ Query) ([]geo.Place, error) {
	p.calls++
	return p.places, p.err
}

var center = geo.Coordinate{Latitude: 37.5, Longitude: 127.0}

func placeAt(name string, lat, lng float64) geo.Place {
	return geo.Place{Name: name}.WithPosition(geo.Coordinate{Latitude: lat, Longitude: lng})
}

func names(places []geo.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.Name
	}
	return out
}

func TestRankIsStableAndAscending(t *testing.T) {
	in := []geo.Place{
		{Name: "c", Distance: 2},
		{Name: "a1", Distance: 1},
		{Name: "b", Distance: 0.5},
		{Name: "a2", Distance: 1},
		{Name: "a3", Distance: 1},
	}

	got := Rank(in)
	assert.Equal(t, []string{"b", "a1", "a2", "a3", "c"}, names(got))
	assert.Equal(t, "c", in[0].Name, "input must not be reordered")
}

func TestSearchWithoutProviderUsesSamples(t *testing.T) {
	general := NewSearcher(nil, GeneralSurface).Search(context.Background(), Query{Center: center, Category: category.TouristAttraction})
	assert.Equal(t, SourceSample, general.Source)
	assert.Len(t, general.Places, 5)

	for _, placeType := range []string{category.Restaurant, category.TouristAttraction, category.Hotel} {
		chat := NewSearcher(nil, ChatSurface).Search(context.Background(), Query{Center: center, Category: placeType})
		assert.Len(t, chat.Places, 3, placeType)
	}
}

func TestSearchMissingCredentialUsesSamples(t *testing.T) {
	provider := NewGoogleProvider("", "http://unused.invalid", nil)
	result := NewSearcher(provider, ChatSurface).Search(context.Background(), Query{Center: center, Category: category.Hotel})

	assert.Equal(t, SourceSample, result.Source)
	assert.Equal(t, []string{"그랜드 호텔", "비즈니스 호텔", "리조트 호텔"}, names(result.Places))
	assert.Equal(t, 0.4, result.Places[0].Distance)
	assert.Equal(t, 1.0, result.Places[2].Distance)
}

func TestSearchRanksChatSamplesByLiteralDistance(t *testing.T) {
	result := NewSearcher(nil, ChatSurface).Search(context.Background(), Query{Center: center, Category: category.TouristAttraction})
	assert.Equal(t, []string{"한강공원", "남산타워", "경복궁"}, names(result.Places))
}

func TestSearchUnknownCategoryChatDefaultsToRestaurants(t *testing.T) {
	result := NewSearcher(nil, ChatSurface).Search(context.Background(), Query{Center: center, Category: "spaceport"})
	assert.Equal(t, []string{"맛있는 파스타", "이탈리안 레스토랑", "고급 스테이크하우스"}, names(result.Places))
}

func TestSearchProviderErrorFallsBack(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("%w: boom", ErrProviderUnavailable)}
	result := NewSearcher(provider, GeneralSurface).Search(context.Background(), Query{Center: center})

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, SourceSample, result.Source)
	assert.Len(t, result.Places, 5)
}

func TestSearchAllPositionlessFallsBack(t *testing.T) {
	provider := &stubProvider{places: []geo.Place{{Name: "ghost"}, {Name: "phantom"}}}
	result := NewSearcher(provider, ChatSurface).Search(context.Background(), Query{Center: center, Category: category.Restaurant})

	assert.Equal(t, SourceSample, result.Source)
	require.NotEmpty(t, result.Places)
	assert.NotContains(t, names(result.Places), "ghost")
}

func TestSearchDropsPositionlessAndRecomputesDistance(t *testing.T) {
	far := placeAt("far", 37.6, 127.0)
	far.Distance = 0.001 // provider's own value is ignored
	provider := &stubProvider{places: []geo.Place{far, {Name: "ghost"}, placeAt("near", 37.501, 127.0)}}

	result := NewSearcher(provider, GeneralSurface).Search(context.Background(), Query{Center: center})

	assert.Equal(t, SourceProvider, result.Source)
	assert.Equal(t, []string{"near", "far"}, names(result.Places))
	assert.InDelta(t, 0.111, result.Places[0].Distance, 0.001)
	assert.InDelta(t, 11.1, result.Places[1].Distance, 0.05)
}

func TestSearchRanksBeforeTruncating(t *testing.T) {
	var raw []geo.Place
	for i := 12; i > 0; i-- {
		raw = append(raw, placeAt(fmt.Sprintf("p%02d", i), 37.5+float64(i)*0.001, 127.0))
	}
	provider := &stubProvider{places: raw}

	general := NewSearcher(provider, GeneralSurface).Search(context.Background(), Query{Center: center})
	require.Len(t, general.Places, 10)
	assert.Equal(t, "p01", general.Places[0].Name)
	assert.Equal(t, "p10", general.Places[9].Name)

	chat := NewSearcher(provider, ChatSurface).Search(context.Background(), Query{Center: center})
	require.Len(t, chat.Places, 5)
	assert.Equal(t, []string{"p01", "p02", "p03", "p04", "p05"}, names(chat.Places))
}

func TestGeneralCatalogPositionsAroundCenter(t *testing.T) {
	places := GeneralCatalog(center, "anything")
	require.Len(t, places, 5)

	pos, ok := places[0].Position()
	require.True(t, ok)
	assert.InDelta(t, 37.51, pos.Latitude, 1e-9)
	assert.InDelta(t, 127.01, pos.Longitude, 1e-9)
}

func TestChatCatalogHasNoPositions(t *testing.T) {
	for _, p := range ChatCatalog(center, category.Hotel) {
		_, ok := p.Position()
		assert.False(t, ok, p.Name)
	}
}

func TestErrNoCredentialIsDistinct(t *testing.T) {
	_, err := NewGoogleProvider("", "", nil).Nearby(context.Background(), Query{})
	assert.True(t, errors.Is(err, ErrNoCredential))
	assert.False(t, errors.Is(err, ErrProviderUnavailable))
}
