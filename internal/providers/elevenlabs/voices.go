package elevenlabs

import "showroom/internal/domain"

// Voice is one of the provider's premade narration voices.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Fixed voice table per gender category. Adding a category means adding
// a case here; there is no implicit fallback voice at synthesis time.
var (
	voiceAlice  = Voice{ID: "Xb7hH8MSUJpSbSDYk0k2", Name: "Alice", Description: "여성 음성 - 명확하고 교육적인 톤 (영국 억양)"}
	voiceGeorge = Voice{ID: "JBFqnCBsd6RMkjVDRZzb", Name: "George", Description: "남성 음성 - 따뜻하고 매력적인 스토리텔러 (영국 억양)"}
	voiceRiver  = Voice{ID: "SAz9YHcvj6GT2YYXdXww", Name: "River", Description: "중성 음성 - 편안하고 중립적인 톤"}
)

// VoiceForGender maps a product's gender category to its narration voice.
func VoiceForGender(gender domain.Gender) Voice {
	switch gender {
	case domain.GenderMale:
		return voiceGeorge
	case domain.GenderUnisex:
		return voiceRiver
	case domain.GenderFemale:
		return voiceAlice
	default:
		return voiceAlice
	}
}

// AvailableVoices lists the premade voices exposed on the voices endpoint.
func AvailableVoices() []Voice {
	return []Voice{
		voiceAlice,
		{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Sarah", Description: "여성 음성 - 성숙하고 신뢰감 있는 톤"},
		{ID: "cgSgspJ2msm6clMCkdW9", Name: "Jessica", Description: "여성 음성 - 밝고 따뜻한 톤"},
		{ID: "pFZP5JQG7iQjIQuC4Bku", Name: "Lily", Description: "여성 음성 - 우아하고 세련된 톤 (영국 억양)"},
		{ID: "hpp4J3VqNfWAUOO0d1Us", Name: "Bella", Description: "여성 음성 - 전문적이고 밝은 톤"},
		voiceGeorge,
		{ID: "cjVigY5qzO86Huf0OWal", Name: "Eric", Description: "남성 음성 - 부드럽고 신뢰감 있는 톤"},
		{ID: "nPczCjzI2devNBz1zQrb", Name: "Brian", Description: "남성 음성 - 깊고 편안한 톤"},
		{ID: "onwK4e9ZLuTAKqWW03F9", Name: "Daniel", Description: "남성 음성 - 안정적인 방송 스타일 (영국 억양)"},
		voiceRiver,
	}
}
