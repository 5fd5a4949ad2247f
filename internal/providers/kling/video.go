package kling

import (
	"context"
	"encoding/json"
	"fmt"

	"showroom/internal/domain"
)

const (
	videoPath          = "/v1/videos/image2video"
	videoModel         = "kling-v2-6"
	videoFallbackModel = "kling-v1-6"

	// Synthesis regularly takes several minutes; budget ten.
	videoPollAttempts = 120

	negativePrompt = "blurry, distorted, ugly, low quality, static, deformed face, bad anatomy"
)

// Rejection codes that mean the requested model variant is not available
// on this account or region. They trigger the one-level fallback; any
// other code is a plain provider failure.
const (
	codeModelUnsupported  = 1203
	codeModelNotPermitted = 1201
)

// VideoRequest carries the product attributes the prompt is built from.
type VideoRequest struct {
	ImageURL string
	Name     string
	Fabric   string
	Gender   domain.Gender
	Category string
}

type videoSubmission struct {
	ModelName      string  `json:"model_name"`
	Image          string  `json:"image"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	CfgScale       float64 `json:"cfg_scale,omitempty"`
	Mode           string  `json:"mode"`
	Duration       string  `json:"duration"`
	AspectRatio    string  `json:"aspect_ratio"`
	Sound          string  `json:"sound,omitempty"`
}

type videoResult struct {
	Videos []struct {
		URL string `json:"url"`
	} `json:"videos"`
}

// GenerateVideo renders a short catwalk clip from the composited image.
// If the provider rejects the preferred model variant it retries exactly
// once against the simpler variant with an adjusted request; the retry's
// outcome is final.
func (c *Client) GenerateVideo(ctx context.Context, req VideoRequest) (string, error) {
	payload := videoSubmission{
		ModelName:      videoModel,
		Image:          stripDataURLPrefix(req.ImageURL),
		Prompt:         buildVideoPrompt(req),
		NegativePrompt: negativePrompt,
		Mode:           "pro",
		Duration:       "10",
		AspectRatio:    "9:16",
		Sound:          "off", // narration is synthesized separately
	}
	taskID, apiErr, err := c.submit(ctx, videoPath, payload)
	if err != nil {
		return "", err
	}
	if apiErr != nil {
		if apiErr.Code == codeModelUnsupported || apiErr.Code == codeModelNotPermitted {
			c.logger.Warn().
				Int("code", apiErr.Code).
				Str("fallback_model", videoFallbackModel).
				Msg("kling: preferred video model rejected, retrying with fallback")
			return c.generateVideoFallback(ctx, req)
		}
		return "", apiErr
	}
	c.logger.Info().Str("task_id", taskID).Str("model", videoModel).Msg("kling: video task submitted")
	return c.awaitVideo(ctx, taskID)
}

func (c *Client) generateVideoFallback(ctx context.Context, req VideoRequest) (string, error) {
	payload := videoSubmission{
		ModelName:      videoFallbackModel,
		Image:          stripDataURLPrefix(req.ImageURL),
		Prompt:         buildFallbackPrompt(req),
		NegativePrompt: negativePrompt,
		CfgScale:       0.5,
		Mode:           "pro",
		Duration:       "10",
		AspectRatio:    "9:16",
	}
	taskID, apiErr, err := c.submit(ctx, videoPath, payload)
	if err != nil {
		return "", err
	}
	if apiErr != nil {
		return "", apiErr
	}
	c.logger.Info().Str("task_id", taskID).Str("model", videoFallbackModel).Msg("kling: fallback video task submitted")
	return c.awaitVideo(ctx, taskID)
}

func (c *Client) awaitVideo(ctx context.Context, taskID string) (string, error) {
	raw, err := c.pollTask(ctx, videoPath+"/"+taskID, videoPollAttempts)
	if err != nil {
		return "", err
	}
	var result videoResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("kling: decode video result: %w", err)
	}
	if len(result.Videos) == 0 || result.Videos[0].URL == "" {
		return "", fmt.Errorf("kling: video result missing url")
	}
	return result.Videos[0].URL, nil
}

func buildVideoPrompt(req VideoRequest) string {
	category := ""
	if req.Category != "" {
		category = " " + req.Category
	}
	return fmt.Sprintf(
		"A professional %s fashion model wearing %s%s in a studio with soft lighting. The model turns to show the %s fabric texture. High quality, 4K, cinematic fashion video.",
		promptGender(req.Gender), req.Name, category, req.Fabric,
	)
}

// The fallback model copes better with a shorter prompt.
func buildFallbackPrompt(req VideoRequest) string {
	return fmt.Sprintf(
		"A professional %s fashion model wearing %s. Natural movements, turning to show %s fabric texture. High quality, 4K, studio lighting.",
		promptGender(req.Gender), req.Name, req.Fabric,
	)
}

func promptGender(gender domain.Gender) string {
	switch gender {
	case domain.GenderMale:
		return "male"
	case domain.GenderUnisex:
		return "androgynous"
	default:
		return "female"
	}
}
