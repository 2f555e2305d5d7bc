package domain

import "io"

// ImageStore persists uploaded event images and returns a stable path.
// Implementations must reject non-image content types with ErrInvalidInput.
type ImageStore interface {
	Save(filename, contentType string, r io.Reader) (path string, err error)
}
