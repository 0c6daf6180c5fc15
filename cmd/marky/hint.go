package main

import (
	"errors"

	"github.com/alnah/go-marky"
	"github.com/alnah/go-marky/internal/hints"
	"github.com/alnah/go-marky/internal/pipeline"
	"github.com/alnah/go-marky/internal/server"
)

// hintedError appends an actionable hint to an error message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }

func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches hint to err. An empty hint returns err unchanged.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

// addHint attaches the hint matching err's cause, unless one is already
// attached.
func addHint(err error) error {
	var h *hintedError
	if errors.As(err, &h) {
		return err
	}

	switch {
	case errors.Is(err, server.ErrBind):
		return withHint(err, hints.ForPortInUse())
	case errors.Is(err, marky.ErrBrowserConnect):
		return withHint(err, hints.ForBrowserConnect())
	case errors.Is(err, marky.ErrPageLoad), errors.Is(err, marky.ErrPDFGeneration):
		return withHint(err, hints.ForTimeout())
	case errors.Is(err, pipeline.ErrImageRead),
		errors.Is(err, pipeline.ErrImageFetch),
		errors.Is(err, pipeline.ErrImageDecode):
		return withHint(err, hints.ForImageInclusion())
	}
	return err
}
