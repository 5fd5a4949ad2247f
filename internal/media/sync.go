package media

// AudioTransport is the narration side of synchronized playback. The
// playback surface adapts its audio element to this interface.
type AudioTransport interface {
	Play()
	Pause()
	Seek(seconds float64)
	SetMuted(muted bool)
	CurrentTime() float64
	Duration() float64
}

// DefaultSyncTolerance is how far narration may drift from the video
// clock before a corrective seek. Re-seeking on every tick causes
// audible stutter, so small drift is left alone.
const DefaultSyncTolerance = 0.5

// SyncController keeps a narration track in step with its video. The
// video element is the timing master: the controller reacts to video
// transport events and drives the audio accordingly.
type SyncController struct {
	audio     AudioTransport
	tolerance float64
	muted     bool
}

// NewSyncController wires a controller around the narration transport.
func NewSyncController(audio AudioTransport) *SyncController {
	return &SyncController{audio: audio, tolerance: DefaultSyncTolerance}
}

// VideoPlayed aligns and starts narration when the video starts. The
// audio is only re-seeked when it drifted beyond the tolerance.
func (c *SyncController) VideoPlayed(videoTime float64) {
	drift := c.audio.CurrentTime() - videoTime
	if drift < 0 {
		drift = -drift
	}
	if drift > c.tolerance {
		c.audio.Seek(videoTime)
	}
	c.audio.Play()
}

// VideoPaused stops narration with the video, except when the video
// reached its natural end while the (longer) narration still has a
// tail: then the narration plays out solo rather than being truncated.
func (c *SyncController) VideoPaused(videoEnded bool) {
	if videoEnded && c.audio.CurrentTime() < c.audio.Duration() {
		return
	}
	c.audio.Pause()
}

// VideoSeeked forces the narration to the exact video position; the
// drift tolerance does not apply to explicit seeks.
func (c *SyncController) VideoSeeked(videoTime float64) {
	c.audio.Seek(videoTime)
}

// SetMuted mutes or unmutes narration without touching either track's
// play state.
func (c *SyncController) SetMuted(muted bool) {
	c.muted = muted
	c.audio.SetMuted(muted)
}

// Muted reports the narration mute toggle.
func (c *SyncController) Muted() bool {
	return c.muted
}
