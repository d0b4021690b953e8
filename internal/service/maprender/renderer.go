// Package maprender turns a search result into an embeddable Leaflet map.
// The map page travels inside an iframe srcdoc so clients can insert the
// fragment with innerHTML and still get its scripts executed.
package maprender

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/tripmate/backend/internal/model/geo"
)

//go:embed map.html.tmpl
var mapTemplate string

// Marker kinds.
const (
	KindCurrent = "current"
	KindPlace   = "place"
)

const defaultZoom = 13

const frameTemplate = `<div class="map-frame" style="width:100%;height:100%;">` +
	`<iframe srcdoc="{{.}}" style="width:100%;height:100%;border:none;" ` +
	`sandbox="allow-scripts allow-popups" loading="lazy"></iframe></div>`

type marker struct {
	Kind      string
	Latitude  float64
	Longitude float64
	Color     string
	Popup     template.HTML
}

type page struct {
	Center  geo.Location
	Zoom    int
	Markers []marker
}

// Renderer produces map HTML. It is safe for concurrent use.
type Renderer struct {
	page  *template.Template
	frame *template.Template
}

// New parses the embedded map templates.
func New() *Renderer {
	return &Renderer{
		page:  template.Must(template.New("map").Parse(mapTemplate)),
		frame: template.Must(template.New("frame").Parse(frameTemplate)),
	}
}

// Render draws a red marker at center and a blue marker for every place that
// has a position, and returns the page wrapped in an iframe fragment.
// zoom <= 0 uses the default zoom level.
func (r *Renderer) Render(center geo.Location, places []geo.Place, zoom int) (string, error) {
	doc, err := r.Page(center, places, zoom)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.frame.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render map frame: %w", err)
	}
	return buf.String(), nil
}

// Page renders the standalone map document that Render embeds.
func (r *Renderer) Page(center geo.Location, places []geo.Place, zoom int) (string, error) {
	if zoom <= 0 {
		zoom = defaultZoom
	}

	p := page{
		Center: center,
		Zoom:   zoom,
		Markers: []marker{{
			Kind:      KindCurrent,
			Latitude:  center.Latitude,
			Longitude: center.Longitude,
			Color:     "red",
			Popup:     template.HTML("현재 위치<br>" + template.HTMLEscapeString(center.Address)),
		}},
	}

	for _, place := range places {
		pos, ok := place.Position()
		if !ok {
			continue
		}
		p.Markers = append(p.Markers, marker{
			Kind:      KindPlace,
			Latitude:  pos.Latitude,
			Longitude: pos.Longitude,
			Color:     "blue",
			Popup:     placePopup(place),
		})
	}

	var buf bytes.Buffer
	if err := r.page.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render map: %w", err)
	}
	return buf.String(), nil
}

func placePopup(place geo.Place) template.HTML {
	return template.HTML(fmt.Sprintf(
		"<b>%s</b><br>주소: %s<br>평점: %s<br>거리: %.1fkm",
		template.HTMLEscapeString(place.Name),
		template.HTMLEscapeString(place.Address),
		geo.FormatNumber(place.Rating),
		place.Distance,
	))
}
