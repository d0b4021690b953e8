package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/olivere/elastic/v7"
	"github.com/phuslu/log"

	"github.com/tripmate/backend/internal/model/geo"
)

// elasticFetchSize bounds how many hits one search pulls back.
const elasticFetchSize = 20

// ElasticProvider searches a self-hosted place catalog stored in Elasticsearch.
// Documents carry name, address, rating, types and a geo_point "location".
type ElasticProvider struct {
	client *elastic.Client
	index  string
}

type elasticPlace struct {
	Name     string            `json:"name"`
	Address  string            `json:"address"`
	Rating   float64           `json:"rating"`
	Types    []string          `json:"types"`
	Location *elastic.GeoPoint `json:"location"`
}

// NewElasticProvider connects to the cluster at url without sniffing or
// background health checks, so construction makes no network calls.
func NewElasticProvider(url, index string, httpClient *http.Client) (*ElasticProvider, error) {
	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	}
	if httpClient != nil {
		opts = append(opts, elastic.SetHttpClient(httpClient))
	}

	client, err := elastic.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create elastic client: %w", err)
	}
	return &ElasticProvider{client: client, index: index}, nil
}

// Nearby implements Provider.
func (p *ElasticProvider) Nearby(ctx context.Context, q Query) ([]geo.Place, error) {
	query := elastic.NewBoolQuery().Filter(
		elastic.NewGeoDistanceQuery("location").
			Lat(q.Center.Latitude).
			Lon(q.Center.Longitude).
			Distance(fmt.Sprintf("%dm", q.RadiusMeters)),
	)
	if q.Category != "" {
		query = query.Filter(elastic.NewTermQuery("types", q.Category))
	}

	result, err := p.client.Search().
		Index(p.index).
		Query(query).
		SortBy(elastic.NewGeoDistanceSort("location").
			Point(q.Center.Latitude, q.Center.Longitude).
			Asc().
			Unit("km").
			DistanceType("arc").
			IgnoreUnmapped(true)).
		Size(elasticFetchSize).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if result.Hits == nil {
		return nil, ErrNoResults
	}

	places := make([]geo.Place, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var doc elasticPlace
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			log.Warn().Err(err).Str("id", hit.Id).Msg("skipping malformed place document")
			continue
		}

		place := geo.Place{
			Name:    doc.Name,
			Address: doc.Address,
			Rating:  doc.Rating,
			Types:   doc.Types,
		}
		if doc.Location != nil {
			place = place.WithPosition(geo.Coordinate{Latitude: doc.Location.Lat, Longitude: doc.Location.Lon})
		}
		places = append(places, place)
	}
	return places, nil
}
