package controllers

import (
	"errors"
	"net/http"
	"os"

	"golang-physiobackend/catalog"
	"golang-physiobackend/export"
	"golang-physiobackend/session"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	physio          *session.Session
	exerciseCatalog *catalog.Loader
	pdfRenderer     export.Renderer = export.Unconfigured{}
)

// Init wires the controllers to the core. Called once from main before the
// router starts.
func Init(s *session.Session, loader *catalog.Loader, renderer export.Renderer) {
	physio = s
	exerciseCatalog = loader
	if renderer != nil {
		pdfRenderer = renderer
	}
}

func baseURL() string {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base
}

// statusFor maps core errors onto HTTP statuses. ErrSaveFailed is a retryable
// conflict: the change was not persisted and the client should try again.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotPrescribed), errors.Is(err, session.ErrNoSuchSubmission):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, session.ErrSaveFailed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
