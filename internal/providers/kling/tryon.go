package kling

import (
	"context"
	"encoding/json"
	"fmt"

	"showroom/internal/domain"
)

const (
	tryOnPath  = "/v1/images/kolors-virtual-try-on"
	tryOnModel = "kolors-virtual-try-on-v1-5"

	// Composition usually lands well under three minutes.
	tryOnPollAttempts = 36
)

// Reference model shots the garment is composited onto. The enumeration
// is fixed; user-supplied model images are not accepted.
var modelImages = map[domain.Gender]string{
	domain.GenderFemale: "https://res.cloudinary.com/dpaqhv0ay/image/upload/v1770710879/Gemini_Generated_Image_lqt41ilqt41ilqt4_pnxc3t.png",
	domain.GenderMale:   "https://res.cloudinary.com/dpaqhv0ay/image/upload/v1770792500/Gemini_Generated_Image_9trm2p9trm2p9trm_v5hkp0.png",
}

func modelImageFor(gender domain.Gender) string {
	switch gender {
	case domain.GenderFemale, domain.GenderMale:
		return modelImages[gender]
	case domain.GenderUnisex:
		return modelImages[domain.GenderFemale]
	default:
		return modelImages[domain.GenderFemale]
	}
}

type tryOnRequest struct {
	ModelName  string `json:"model_name"`
	HumanImage string `json:"human_image"`
	ClothImage string `json:"cloth_image"`
}

type tryOnResult struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// VirtualTryOn composites the garment onto the gender-selected reference
// model and returns the URL of the composited image. Provider-side
// failures and poll timeouts come back as *APIError / ErrPollTimeout so
// the pipeline can degrade instead of aborting.
func (c *Client) VirtualTryOn(ctx context.Context, clothImage string, gender domain.Gender) (string, error) {
	payload := tryOnRequest{
		ModelName:  tryOnModel,
		HumanImage: modelImageFor(gender),
		ClothImage: stripDataURLPrefix(clothImage),
	}
	taskID, apiErr, err := c.submit(ctx, tryOnPath, payload)
	if err != nil {
		return "", err
	}
	if apiErr != nil {
		return "", apiErr
	}
	c.logger.Info().Str("task_id", taskID).Msg("kling: try-on task submitted")

	raw, err := c.pollTask(ctx, tryOnPath+"/"+taskID, tryOnPollAttempts)
	if err != nil {
		return "", err
	}
	var result tryOnResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("kling: decode try-on result: %w", err)
	}
	if len(result.Images) == 0 || result.Images[0].URL == "" {
		return "", fmt.Errorf("kling: try-on result missing image url")
	}
	return result.Images[0].URL, nil
}
