package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"showroom/internal/domain"
	"showroom/internal/imageconv"
	"showroom/internal/middleware"
	"showroom/internal/pipeline"
)

type createProductRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	Image         string `json:"image" validate:"required"`
	Fabric        string `json:"fabric" validate:"required,max=200"`
	Gender        string `json:"gender" validate:"omitempty,oneof=female male unisex"`
	Category      string `json:"category" validate:"omitempty,max=50"`
	NarrationText string `json:"narration_text" validate:"omitempty,max=500"`
	NarrationLang string `json:"narration_lang" validate:"omitempty,bcp47_language_tag"`
	ColorsText    string `json:"colors_text"`
	SizesText     string `json:"sizes_text"`
}

type productResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	ImageSource   string              `json:"image"`
	Fabric        string              `json:"fabric"`
	Gender        domain.Gender       `json:"gender"`
	Category      string              `json:"category,omitempty"`
	Colors        []domain.ColorStock `json:"colors"`
	Sizes         []domain.SizeStock  `json:"sizes"`
	VideoURL      *string             `json:"video_url"`
	AudioDataURL  *string             `json:"audio_url"`
	MediaStatus   domain.MediaStatus  `json:"media_status"`
	FailureReason string              `json:"failure_reason,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	DeletedAt     *time.Time          `json:"deleted_at,omitempty"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		ImageSource:   p.ImageSource,
		Fabric:        p.Fabric,
		Gender:        p.Gender,
		Category:      p.Category,
		Colors:        p.Colors,
		Sizes:         p.Sizes,
		VideoURL:      p.VideoURL,
		AudioDataURL:  p.AudioDataURL,
		MediaStatus:   p.MediaStatus,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		DeletedAt:     p.DeletedAt,
	}
}

// ProductsCreate registers a product and spawns its media pipeline. The
// response returns immediately; generation takes minutes and is tracked
// through the media status endpoint.
func (a *App) ProductsCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "name, image and fabric are required")
		return
	}
	image, err := imageconv.NormalizeDataURL(req.Image)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported image payload")
		return
	}

	lang := req.NarrationLang
	if lang == "" {
		lang = middleware.LanguageFromContext(r.Context())
	}
	if lang == "" {
		lang = a.DefaultNarrationLang
	}

	product := &domain.Product{
		ID:            uuid.NewString(),
		Name:          req.Name,
		ImageSource:   image,
		Fabric:        req.Fabric,
		Gender:        domain.NormalizeGender(req.Gender),
		Category:      req.Category,
		NarrationText: req.NarrationText,
		NarrationLang: lang,
		Colors:        domain.ParseColorStock(req.ColorsText),
		Sizes:         domain.ParseSizeStock(req.SizesText),
		MediaStatus:   domain.MediaStatusPending,
		CreatedAt:     time.Now(),
	}
	if err := a.Repo.Create(r.Context(), product); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: create product failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to register product")
		return
	}

	a.Logger.Info().
		Str("product_id", product.ID).
		Str("name", product.Name).
		Str("gender", string(product.Gender)).
		Msg("handlers: product registered, starting media pipeline")

	// Fire-and-forget: the pipeline outlives this request.
	a.Pipeline.Start(pipeline.Job{
		ProductID:     product.ID,
		SourceImage:   product.ImageSource,
		Name:          product.Name,
		Fabric:        product.Fabric,
		Gender:        product.Gender,
		Category:      product.Category,
		NarrationText: product.NarrationText,
		NarrationLang: product.NarrationLang,
	})

	a.json(w, http.StatusCreated, map[string]any{
		"product": toProductResponse(product),
		"message": "product registered; media generation has started",
	})
}

// ProductsList returns live products, newest first.
func (a *App) ProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := a.Repo.List(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: list products failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list products")
		return
	}
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"products": out})
}

// ProductsGet fetches a single product.
func (a *App) ProductsGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := a.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		a.Logger.Error().Err(err).Str("product_id", id).Msg("handlers: get product failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load product")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"product": toProductResponse(product)})
}

type deleteProductsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid4"`
}

// ProductsDelete moves products into the trash. Rows expire from the
// trash after the configured horizon; until then they can be restored.
func (a *App) ProductsDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Validate.Struct(req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "ids are required")
		return
	}
	count, err := a.Repo.SoftDelete(r.Context(), req.IDs)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: soft delete failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete products")
		return
	}
	if count == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no products were deleted")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"deleted_count": count})
}

// ProductsRestore brings a trashed product back into the catalog.
func (a *App) ProductsRestore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Repo.Restore(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "product not in trash")
			return
		}
		a.Logger.Error().Err(err).Str("product_id", id).Msg("handlers: restore failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to restore product")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "restored"})
}

// TrashList returns trashed products awaiting expiry.
func (a *App) TrashList(w http.ResponseWriter, r *http.Request) {
	products, err := a.Repo.ListTrash(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: list trash failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list trash")
		return
	}
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"products": out})
}
