package handlers

import (
	"net/http"

	"showroom/internal/providers/elevenlabs"
)

// Voices lists the premade narration voices the shop can narrate with.
func (a *App) Voices(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"provider": "ElevenLabs",
		"model":    "eleven_multilingual_v2",
		"voices":   elevenlabs.AvailableVoices(),
	})
}
