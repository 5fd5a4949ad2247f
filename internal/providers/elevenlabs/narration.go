package elevenlabs

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"golang.org/x/text/language"

	"showroom/internal/domain"
)

// NarrationInput describes the product a narration is spoken for.
type NarrationInput struct {
	ProductID string
	Name      string
	Fabric    string
	Gender    domain.Gender
	Category  string
	// Override skips the generated candidates when the admin supplied
	// their own narration text.
	Override string
	Language string
}

// Garment labels keyed by the registration form's category tags.
var categoryLabels = map[string]string{
	"short-sleeve": "반팔 티셔츠",
	"long-sleeve":  "긴팔 티셔츠",
	"sleeveless":   "민소매",
	"shirt":        "셔츠",
	"knit":         "니트",
	"hoodie":       "후드",
	"pants":        "팬츠",
	"shorts":       "쇼츠",
	"skirt":        "스커트",
	"denim":        "데님",
	"slacks":       "슬랙스",
	"jacket":       "자켓",
	"coat":         "코트",
	"padding":      "패딩",
	"cardigan":     "가디건",
	"onepiece":     "원피스",
}

func garmentLabel(category string) string {
	if label, ok := categoryLabels[strings.ToLower(strings.TrimSpace(category))]; ok {
		return label
	}
	return "아이템"
}

func genderLabel(gender domain.Gender) string {
	switch gender {
	case domain.GenderMale:
		return "남성"
	case domain.GenderUnisex:
		return "남녀공용"
	default:
		return "여성"
	}
}

// NarrationCandidates builds the template sentences a narration is
// picked from. Each runs about five seconds when spoken.
func NarrationCandidates(in NarrationInput) []string {
	gender := genderLabel(in.Gender)
	garment := garmentLabel(in.Category)
	return []string{
		fmt.Sprintf("%s. %s 소재의 프리미엄 %s %s입니다.", in.Name, in.Fabric, gender, garment),
		fmt.Sprintf("%s 소재로 완성한 %s. 세련된 %s %s 룩을 만나보세요.", in.Fabric, in.Name, gender, garment),
		fmt.Sprintf("프리미엄 %s 소재, %s. %s을 위한 특별한 %s.", in.Fabric, in.Name, gender, garment),
	}
}

// NarrationText resolves the spoken sentence: an admin override wins,
// otherwise a candidate is picked deterministically per product so
// re-rendering the same product narrates identically.
func NarrationText(in NarrationInput) string {
	if override := strings.TrimSpace(in.Override); override != "" {
		return override
	}
	candidates := NarrationCandidates(in)
	h := fnv.New32a()
	h.Write([]byte(in.ProductID))
	return candidates[int(h.Sum32())%len(candidates)]
}

// GenerateNarration synthesizes the product narration with the voice
// matching the product's gender category.
func (c *Client) GenerateNarration(ctx context.Context, in NarrationInput) (*SpeechResult, error) {
	text := NarrationText(in)
	c.logger.Info().
		Str("product_id", in.ProductID).
		Str("text", text).
		Msg("elevenlabs: generating product narration")
	return c.Synthesize(ctx, SpeechRequest{
		Text:     text,
		Voice:    VoiceForGender(in.Gender),
		Language: NormalizeLanguage(in.Language),
	})
}

// NormalizeLanguage reduces a BCP 47 tag to the bare language code the
// speech API expects ("ko-KR" -> "ko"). Unparseable input defaults to
// Korean, the shop's home market.
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "ko"
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "ko"
	}
	base, _ := parsed.Base()
	return base.String()
}
