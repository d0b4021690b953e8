package assistant

import (
	"strings"

	"github.com/tripmate/backend/internal/model/chat"
)

const travelSystemPrompt = `당신은 여행지 추천을 돕는 친절한 여행 도우미입니다.
사용자가 찾는 장소의 종류(맛집, 관광지, 호텔 등)를 파악하고, 한국어로 짧고 구체적으로 답하세요.
모르는 정보는 지어내지 말고, 위치가 필요하면 위치 설정을 부탁하세요.`

// historyLimit bounds how many earlier turns are replayed to a model.
const historyLimit = 6

// systemPrompt appends the user's last known location to the base prompt.
func systemPrompt(req Request) string {
	if req.Location == nil || strings.TrimSpace(req.Location.Address) == "" {
		return travelSystemPrompt
	}

	var b strings.Builder
	b.WriteString(travelSystemPrompt)
	b.WriteString("\n\n사용자의 현재 위치: ")
	b.WriteString(req.Location.Address)
	b.WriteString(" (")
	b.WriteString(req.Location.Coordinate().String())
	b.WriteString(")")
	return b.String()
}

func recentHistory(turns []chat.Turn) []chat.Turn {
	if len(turns) > historyLimit {
		return turns[len(turns)-historyLimit:]
	}
	return turns
}

func locationAddress(req Request) string {
	if req.Location == nil {
		return ""
	}
	return req.Location.Address
}
