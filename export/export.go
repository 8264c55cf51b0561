// Package export is the document-generation boundary. Layout, fonts and QR
// placement belong to the renderer, not to the core.
package export

import (
	"errors"

	"golang-physiobackend/models"
)

// ErrNoRenderer is returned while no PDF renderer is configured.
var ErrNoRenderer = errors.New("export: no renderer configured")

// Renderer turns a patient record into printable document bytes.
type Renderer interface {
	Render(record models.PatientRecord) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(models.PatientRecord) ([]byte, error)

func (f RendererFunc) Render(record models.PatientRecord) ([]byte, error) {
	return f(record)
}

// Unconfigured is the placeholder renderer.
type Unconfigured struct{}

func (Unconfigured) Render(models.PatientRecord) ([]byte, error) {
	return nil, ErrNoRenderer
}
