package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"showroom/internal/domain"
	"showroom/internal/infra"
	"showroom/internal/pipeline"
)

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Repo                 domain.ProductRepository
	Pipeline             *pipeline.Orchestrator
	Logger               infra.Logger
	Validate             *validator.Validate
	DefaultNarrationLang string
}

// NewApp builds the handler container.
func NewApp(repo domain.ProductRepository, orch *pipeline.Orchestrator, logger infra.Logger, defaultLang string) *App {
	return &App{
		Repo:                 repo,
		Pipeline:             orch,
		Logger:               logger,
		Validate:             validator.New(validator.WithRequiredStructEnabled()),
		DefaultNarrationLang: defaultLang,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
