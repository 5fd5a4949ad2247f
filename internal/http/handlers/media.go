package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"showroom/internal/domain"
	"showroom/internal/media"
)

type mediaStatusResponse struct {
	ProductID     string             `json:"product_id"`
	Status        domain.MediaStatus `json:"status"`
	VideoURL      *string            `json:"video_url"`
	AudioDataURL  *string            `json:"audio_url"`
	FailureReason string             `json:"failure_reason,omitempty"`
}

// MediaStatus is the payload the catalog polls while a product's video
// is generating. Narration audio is header-repaired on the way out so
// the player never sees a malformed legacy container.
func (a *App) MediaStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := a.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		a.Logger.Error().Err(err).Str("product_id", id).Msg("handlers: media status failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load media status")
		return
	}

	resp := mediaStatusResponse{
		ProductID:     product.ID,
		Status:        product.MediaStatus,
		VideoURL:      product.VideoURL,
		FailureReason: product.FailureReason,
	}
	if product.AudioDataURL != nil {
		repaired := media.RepairDataURL(*product.AudioDataURL)
		resp.AudioDataURL = &repaired
	}
	a.json(w, http.StatusOK, resp)
}
