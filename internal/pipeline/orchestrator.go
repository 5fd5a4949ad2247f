package pipeline

import (
	"context"
	"fmt"
	"strings"

	"showroom/internal/domain"
	"showroom/internal/infra"
	"showroom/internal/providers/elevenlabs"
	"showroom/internal/providers/kling"
)

// TryOnFallback decides what happens to video synthesis when the try-on
// stage fails: keep going with the raw product shot, or give up.
type TryOnFallback int

const (
	// FallbackSourceImage renders the video from the original product
	// shot when composition fails. Lower quality beats no video.
	FallbackSourceImage TryOnFallback = iota
	// FallbackAbort fails the job instead of publishing a video that
	// was never composited onto a model.
	FallbackAbort
)

// TryOnClient composites a garment onto a reference model.
type TryOnClient interface {
	VirtualTryOn(ctx context.Context, clothImage string, gender domain.Gender) (string, error)
}

// VideoClient renders the product video from an image.
type VideoClient interface {
	GenerateVideo(ctx context.Context, req kling.VideoRequest) (string, error)
}

// NarrationClient synthesizes the spoken narration.
type NarrationClient interface {
	GenerateNarration(ctx context.Context, in elevenlabs.NarrationInput) (*elevenlabs.SpeechResult, error)
}

// Job is one run of the media pipeline for one registered product.
type Job struct {
	ProductID     string
	SourceImage   string
	Name          string
	Fabric        string
	Gender        domain.Gender
	Category      string
	NarrationText string
	NarrationLang string
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Repo          domain.ProductRepository
	TryOn         TryOnClient
	Video         VideoClient
	TTS           NarrationClient
	Logger        infra.Logger
	TryOnFallback TryOnFallback
}

// Orchestrator drives a product through try-on, video synthesis and
// narration to a terminal media status, persisting every transition so
// the polling UI sees live progress.
type Orchestrator struct {
	repo     domain.ProductRepository
	tryOn    TryOnClient
	video    VideoClient
	tts      NarrationClient
	logger   infra.Logger
	fallback TryOnFallback
}

// New constructs an orchestrator from explicitly injected collaborators.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		repo:     opts.Repo,
		tryOn:    opts.TryOn,
		video:    opts.Video,
		tts:      opts.TTS,
		logger:   opts.Logger,
		fallback: opts.TryOnFallback,
	}
}

// Start launches the pipeline detached from the caller. Registration
// must not wait minutes for AI generation, so this is fire-and-forget:
// do not await it. Panics and stray errors in the detached run are
// caught by the outer guard so the job never sticks in "generating".
func (o *Orchestrator) Start(job Job) {
	go o.guardedRun(context.Background(), job)
}

func (o *Orchestrator) guardedRun(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().
				Str("product_id", job.ProductID).
				Interface("panic", r).
				Msg("pipeline: run panicked")
			o.forceFailed(ctx, job.ProductID, fmt.Sprintf("internal error: %v", r))
		}
	}()
	if err := o.run(ctx, job); err != nil {
		o.logger.Error().Err(err).Str("product_id", job.ProductID).Msg("pipeline: run aborted")
		o.forceFailed(ctx, job.ProductID, "internal error: "+err.Error())
	}
}

// run executes the three stages. It returns an error only for faults
// outside the stage contract (persistence failures, broken clients);
// provider-side stage failures are handled inside and end in a clean
// terminal write.
func (o *Orchestrator) run(ctx context.Context, job Job) error {
	// Persisted before any remote call: a crash mid-pipeline must leave
	// an observable non-pending state.
	if err := o.repo.UpdateMedia(ctx, job.ProductID, domain.MediaUpdate{Status: domain.MediaStatusGenerating}); err != nil {
		return fmt.Errorf("mark generating: %w", err)
	}

	imageForVideo, tryOnAborted := o.runTryOn(ctx, job)

	var (
		videoURL string
		videoErr error
	)
	if tryOnAborted {
		videoErr = fmt.Errorf("try-on failed and fallback to the source image is disabled")
	} else {
		videoURL, videoErr = o.video.GenerateVideo(ctx, kling.VideoRequest{
			ImageURL: imageForVideo,
			Name:     job.Name,
			Fabric:   job.Fabric,
			Gender:   job.Gender,
			Category: job.Category,
		})
		if videoErr != nil {
			o.logger.Error().Err(videoErr).Str("product_id", job.ProductID).Msg("pipeline: video synthesis failed")
		}
	}

	// Narration runs regardless of the video outcome: a regenerated
	// video can reuse it later. Its failures never propagate.
	audioDataURL := o.runNarration(ctx, job)

	update := domain.MediaUpdate{}
	if audioDataURL != "" {
		update.AudioDataURL = &audioDataURL
	}
	if videoErr == nil {
		update.Status = domain.MediaStatusCompleted
		update.VideoURL = &videoURL
	} else {
		update.Status = domain.MediaStatusFailed
		reason := "video generation failed: " + videoErr.Error()
		if audioDataURL != "" {
			reason += " (narration preserved)"
		}
		update.FailureReason = &reason
	}
	if err := o.repo.UpdateMedia(ctx, job.ProductID, update); err != nil {
		return fmt.Errorf("persist terminal status: %w", err)
	}

	o.logger.Info().
		Str("product_id", job.ProductID).
		Str("status", string(update.Status)).
		Bool("narration", audioDataURL != "").
		Msg("pipeline: finished")
	return nil
}

// runTryOn returns the image the video stage should render from, and
// whether the abort policy stops the pipeline. A cosmetic failure here
// must not block video generation under the default policy.
func (o *Orchestrator) runTryOn(ctx context.Context, job Job) (string, bool) {
	composited, err := o.tryOn.VirtualTryOn(ctx, job.SourceImage, job.Gender)
	if err == nil && composited != "" {
		o.logger.Info().Str("product_id", job.ProductID).Msg("pipeline: try-on composited garment onto model")
		return composited, false
	}
	o.logger.Warn().Err(err).Str("product_id", job.ProductID).Msg("pipeline: try-on failed")
	if o.fallback == FallbackAbort {
		return "", true
	}
	return job.SourceImage, false
}

func (o *Orchestrator) runNarration(ctx context.Context, job Job) string {
	result, err := o.tts.GenerateNarration(ctx, elevenlabs.NarrationInput{
		ProductID: job.ProductID,
		Name:      job.Name,
		Fabric:    job.Fabric,
		Gender:    job.Gender,
		Category:  job.Category,
		Override:  job.NarrationText,
		Language:  job.NarrationLang,
	})
	if err != nil {
		o.logger.Warn().Err(err).Str("product_id", job.ProductID).Msg("pipeline: narration failed, continuing without audio")
		return ""
	}
	return result.DataURL()
}

// forceFailed makes an abnormal exit observable in persisted state. It
// only writes when the job is still mid-flight; terminal statuses are
// never overwritten.
func (o *Orchestrator) forceFailed(ctx context.Context, productID, reason string) {
	product, err := o.repo.GetByID(ctx, productID)
	if err != nil {
		o.logger.Error().Err(err).Str("product_id", productID).Msg("pipeline: failed to load job for failure write")
		return
	}
	if product.MediaStatus != domain.MediaStatusGenerating {
		return
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "video generation failed"
	}
	if err := o.repo.UpdateMedia(ctx, productID, domain.MediaUpdate{
		Status:        domain.MediaStatusFailed,
		FailureReason: &reason,
	}); err != nil {
		o.logger.Error().Err(err).Str("product_id", productID).Msg("pipeline: failed to persist failure status")
	}
}
