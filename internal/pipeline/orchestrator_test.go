package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"showroom/internal/domain"
	"showroom/internal/infra"
	"showroom/internal/providers/elevenlabs"
	"showroom/internal/providers/kling"
)

type fakeRepo struct {
	mu        sync.Mutex
	product   *domain.Product
	statusLog []domain.MediaStatus
	updateErr error
}

func newFakeRepo(id string) *fakeRepo {
	return &fakeRepo{product: &domain.Product{ID: id, MediaStatus: domain.MediaStatusPending}}
}

func (f *fakeRepo) Create(ctx context.Context, p *domain.Product) error { return nil }

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.product == nil || f.product.ID != id {
		return nil, domain.ErrNotFound
	}
	copied := *f.product
	return &copied, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.Product, error) { return nil, nil }

// UpdateMedia mirrors the SQL COALESCE semantics: nil fields leave the
// stored values untouched.
func (f *fakeRepo) UpdateMedia(ctx context.Context, id string, update domain.MediaUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.product == nil || f.product.ID != id {
		return domain.ErrNotFound
	}
	f.statusLog = append(f.statusLog, update.Status)
	f.product.MediaStatus = update.Status
	if update.VideoURL != nil {
		f.product.VideoURL = update.VideoURL
	}
	if update.AudioDataURL != nil {
		f.product.AudioDataURL = update.AudioDataURL
	}
	if update.FailureReason != nil {
		f.product.FailureReason = *update.FailureReason
	}
	return nil
}

func (f *fakeRepo) SoftDelete(ctx context.Context, ids []string) (int, error) { return 0, nil }
func (f *fakeRepo) Restore(ctx context.Context, id string) error              { return nil }
func (f *fakeRepo) ListTrash(ctx context.Context) ([]domain.Product, error)   { return nil, nil }
func (f *fakeRepo) PurgeExpired(ctx context.Context, olderThan time.Time) (int, error) {
	return 0, nil
}

func (f *fakeRepo) snapshot() domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.product
}

func (f *fakeRepo) statuses() []domain.MediaStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.MediaStatus(nil), f.statusLog...)
}

type fakeTryOn struct {
	url   string
	err   error
	calls int
	image string
}

func (f *fakeTryOn) VirtualTryOn(ctx context.Context, clothImage string, gender domain.Gender) (string, error) {
	f.calls++
	f.image = clothImage
	return f.url, f.err
}

type fakeVideo struct {
	url      string
	err      error
	panicMsg string
	calls    int
	got      kling.VideoRequest
}

func (f *fakeVideo) GenerateVideo(ctx context.Context, req kling.VideoRequest) (string, error) {
	f.calls++
	f.got = req
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.url, f.err
}

type fakeTTS struct {
	result *elevenlabs.SpeechResult
	err    error
	calls  int
}

func (f *fakeTTS) GenerateNarration(ctx context.Context, in elevenlabs.NarrationInput) (*elevenlabs.SpeechResult, error) {
	f.calls++
	return f.result, f.err
}

func discardLogger() infra.Logger {
	return infra.Logger(zerolog.New(io.Discard))
}

func newTestOrchestrator(repo *fakeRepo, tryOn *fakeTryOn, video *fakeVideo, tts *fakeTTS, fallback TryOnFallback) *Orchestrator {
	return New(Options{
		Repo:          repo,
		TryOn:         tryOn,
		Video:         video,
		TTS:           tts,
		Logger:        discardLogger(),
		TryOnFallback: fallback,
	})
}

var testJob = Job{
	ProductID:   "p-1",
	SourceImage: "img://shirt.png",
	Name:        "linen shirt",
	Fabric:      "linen",
	Gender:      domain.GenderFemale,
	Category:    "shirt",
}

func narration() *elevenlabs.SpeechResult {
	return &elevenlabs.SpeechResult{Data: []byte("mp3"), MIME: "audio/mpeg"}
}

func TestRunHappyPath(t *testing.T) {
	repo := newFakeRepo("p-1")
	tryOn := &fakeTryOn{url: "img://tryon.png"}
	video := &fakeVideo{url: "video://out.mp4"}
	tts := &fakeTTS{result: narration()}
	o := newTestOrchestrator(repo, tryOn, video, tts, FallbackSourceImage)

	o.guardedRun(context.Background(), testJob)

	p := repo.snapshot()
	if p.MediaStatus != domain.MediaStatusCompleted {
		t.Fatalf("status = %q, want completed", p.MediaStatus)
	}
	if p.VideoURL == nil || *p.VideoURL != "video://out.mp4" {
		t.Fatalf("video url = %v, want the rendered clip", p.VideoURL)
	}
	if p.AudioDataURL == nil || !strings.HasPrefix(*p.AudioDataURL, "data:audio/mpeg;base64,") {
		t.Fatalf("audio = %v, want narration data URL", p.AudioDataURL)
	}
	if video.got.ImageURL != "img://tryon.png" {
		t.Fatalf("video rendered from %q, want the composited image", video.got.ImageURL)
	}
	if got := repo.statuses(); len(got) != 2 || got[0] != domain.MediaStatusGenerating || got[1] != domain.MediaStatusCompleted {
		t.Fatalf("status transitions = %v, want [generating completed]", got)
	}
}

func TestRunMarksGeneratingBeforeRemoteCalls(t *testing.T) {
	repo := newFakeRepo("p-1")
	tryOn := &fakeTryOn{err: errors.New("boom")}
	video := &fakeVideo{err: errors.New("boom")}
	tts := &fakeTTS{err: errors.New("boom")}
	o := newTestOrchestrator(repo, tryOn, video, tts, FallbackSourceImage)

	o.guardedRun(context.Background(), testJob)

	got := repo.statuses()
	if len(got) == 0 || got[0] != domain.MediaStatusGenerating {
		t.Fatalf("first persisted status = %v, want generating", got)
	}
}

func TestRunTryOnDegradesToSourceImage(t *testing.T) {
	repo := newFakeRepo("p-1")
	tryOn := &fakeTryOn{err: errors.New("composition rejected")}
	video := &fakeVideo{url: "video://out.mp4"}
	tts := &fakeTTS{result: narration()}
	o := newTestOrchestrator(repo, tryOn, video, tts, FallbackSourceImage)

	o.guardedRun(context.Background(), testJob)

	if video.calls != 1 {
		t.Fatalf("video called %d times, want 1", video.calls)
	}
	if video.got.ImageURL != "img://shirt.png" {
		t.Fatalf("video rendered from %q, want the original product shot", video.got.ImageURL)
	}
	if p := repo.snapshot(); p.MediaStatus != domain.MediaStatusCompleted {
		t.Fatalf("status = %q, want completed despite try-on failure", p.MediaStatus)
	}
}

func TestRunTryOnAbortPolicy(t *testing.T) {
	repo := newFakeRepo("p-1")
	tryOn := &fakeTryOn{err: errors.New("composition rejected")}
	video := &fakeVideo{url: "video://out.mp4"}
	tts := &fakeTTS{result: narration()}
	o := newTestOrchestrator(repo, tryOn, video, tts, FallbackAbort)

	o.guardedRun(context.Background(), testJob)

	if video.calls != 0 {
		t.Fatalf("video called %d times, want 0 under abort policy", video.calls)
	}
	p := repo.snapshot()
	if p.MediaStatus != domain.MediaStatusFailed {
		t.Fatalf("status = %q, want failed", p.MediaStatus)
	}
	if tts.calls != 1 || p.AudioDataURL == nil {
		t.Fatalf("narration still runs under abort policy, calls=%d audio=%v", tts.calls, p.AudioDataURL)
	}
}

func TestRunNarrationSurvivesVideoFailure(t *testing.T) {
	repo := newFakeRepo("p-1")
	tryOn := &fakeTryOn{url: "img://tryon.png"}
	video := &fakeVideo{err: errors.New("render farm down")}
	tts := &fakeTTS{result: narration()}
	o := newTestOrchestrator(repo, tryOn, video, tts, FallbackSourceImage)

	o.guardedRun(context.Background(), testJob)

	p := repo.snapshot()
	if p.MediaStatus != domain.MediaStatusFailed {
		t.Fatalf("status = %q, want failed", p.MediaStatus)
	}
	if p.AudioDataURL == nil {
		t.Fatal("narration discarded, want it persisted alongside the failure")
	}
	if !strings.Contains(p.FailureReason, "narration preserved") {
		t.Fatalf("failure reason = %q, want it to note the preserved narration", p.FailureReason)
	}
	if p.VideoURL != nil {
		t.Fatalf("video url = %v, want none", *p.VideoURL)
	}
}

func TestRunVideoFailureWithoutNarration(t *testing.T) {
	repo := newFakeRepo("p-1")
	tryOn := &fakeTryOn{url: "img://tryon.png"}
	video := &fakeVideo{err: errors.New("render farm down")}
	tts := &fakeTTS{err: errors.New("tts down too")}
	o := newTestOrchestrator(repo, tryOn, video, tts, FallbackSourceImage)

	o.guardedRun(context.Background(), testJob)

	p := repo.snapshot()
	if p.MediaStatus != domain.MediaStatusFailed {
		t.Fatalf("status = %q, want failed", p.MediaStatus)
	}
	if p.AudioDataURL != nil {
		t.Fatalf("audio = %v, want none", *p.AudioDataURL)
	}
	if strings.Contains(p.FailureReason, "narration preserved") {
		t.Fatalf("failure reason = %q, should not claim a preserved narration", p.FailureReason)
	}
}

func TestGuardedRunRecoversFromPanic(t *testing.T) {
	repo := newFakeRepo("p-1")
	tryOn := &fakeTryOn{url: "img://tryon.png"}
	video := &fakeVideo{panicMsg: "nil deref in codec"}
	tts := &fakeTTS{result: narration()}
	o := newTestOrchestrator(repo, tryOn, video, tts, FallbackSourceImage)

	o.guardedRun(context.Background(), testJob)

	p := repo.snapshot()
	if p.MediaStatus != domain.MediaStatusFailed {
		t.Fatalf("status = %q, want failed after panic", p.MediaStatus)
	}
	if !strings.Contains(p.FailureReason, "internal error") {
		t.Fatalf("failure reason = %q, want internal error marker", p.FailureReason)
	}
}

func TestForceFailedNeverOverwritesTerminalStatus(t *testing.T) {
	repo := newFakeRepo("p-1")
	completed := "video://out.mp4"
	repo.product.MediaStatus = domain.MediaStatusCompleted
	repo.product.VideoURL = &completed
	o := newTestOrchestrator(repo, &fakeTryOn{}, &fakeVideo{}, &fakeTTS{}, FallbackSourceImage)

	o.forceFailed(context.Background(), "p-1", "late failure")

	p := repo.snapshot()
	if p.MediaStatus != domain.MediaStatusCompleted {
		t.Fatalf("status = %q, terminal status must not be overwritten", p.MediaStatus)
	}
	if len(repo.statuses()) != 0 {
		t.Fatal("unexpected write for an already-terminal job")
	}
}

func TestStartIsFireAndForget(t *testing.T) {
	repo := newFakeRepo("p-1")
	tryOn := &fakeTryOn{url: "img://tryon.png"}
	video := &fakeVideo{url: "video://out.mp4"}
	tts := &fakeTTS{result: narration()}
	o := newTestOrchestrator(repo, tryOn, video, tts, FallbackSourceImage)

	o.Start(testJob)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if repo.snapshot().MediaStatus.Terminal() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job never reached a terminal status, last = %q", repo.snapshot().MediaStatus)
}
