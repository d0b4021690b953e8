// Package intent is the offline fallback responder: it maps a free-text
// message to a canned reply by keyword matching.
package intent

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tripmate/backend/internal/model/category"
)

// Label names a recognised intent.
type Label string

const (
	Food       Label = "food"
	Attraction Label = "attraction"
	Lodging    Label = "lodging"
	Greeting   Label = "greeting"
)

// Decision is the classification of one message.
type Decision struct {
	Intent Label
	Answer string
	// Category is the place type to search for, empty for Greeting.
	Category string
}

// Entities returns the decision's slots for persistence.
func (d Decision) Entities() map[string]string {
	if d.Category == "" {
		return nil
	}
	return map[string]string{"place_type": d.Category}
}

// Response is a canned reply with a fresh conversation id.
type Response struct {
	Decision
	ConversationID string
}

type bucket struct {
	label    Label
	keywords []string
	category string
	answer   string
}

// Checked in order; the first bucket with any keyword in the message wins.
var buckets = []bucket{
	{
		label:    Food,
		keywords: []string{"맛집", "음식", "식당", "레스토랑", "카페"},
		category: category.Restaurant,
		answer:   "맛집을 찾고 계시는군요! 현재 위치를 알려주시면 주변의 인기 맛집들을 추천해드릴게요. 📍 위치를 설정해주세요.",
	},
	{
		label:    Attraction,
		keywords: []string{"관광", "여행", "명소", "볼거리", "가볼만한", "가볼 만한"},
		category: category.TouristAttraction,
		answer:   "관광지를 찾고 계시는군요! 현재 위치를 알려주시면 주변의 인기 관광지를 추천해드릴게요. 📍 위치를 설정해주세요.",
	},
	{
		label:    Lodging,
		keywords: []string{"호텔", "숙박", "잔다"},
		category: category.Hotel,
		answer:   "숙박 시설을 찾고 계시는군요! 현재 위치를 알려주시면 주변의 호텔과 게스트하우스를 추천해드릴게요. 📍 위치를 설정해주세요.",
	},
}

const greetingAnswer = "안녕하세요! 여행지 추천을 도와드릴게요. 어떤 종류의 장소를 찾고 계신가요? (맛집, 관광지, 호텔 등)"

// Classify picks the canned reply for message.
func Classify(message string) Decision {
	for _, b := range buckets {
		for _, word := range b.keywords {
			if strings.Contains(message, word) {
				return Decision{Intent: b.label, Answer: b.answer, Category: b.category}
			}
		}
	}
	return Decision{Intent: Greeting, Answer: greetingAnswer}
}

// Respond classifies message and attaches a new conversation id.
func Respond(message string) Response {
	return Response{Decision: Classify(message), ConversationID: uuid.NewString()}
}
