package pipeline

import "errors"

// Sentinel errors for pipeline stages.
var (
	// ErrHTMLConversion indicates Markdown to HTML conversion failed.
	ErrHTMLConversion = errors.New("HTML conversion failed")

	// ErrTemplate indicates the page template could not be parsed or executed.
	ErrTemplate = errors.New("page template failed")

	// ErrImageRead indicates a local image could not be read.
	ErrImageRead = errors.New("failed to read image")

	// ErrImageFetch indicates a remote image could not be downloaded.
	ErrImageFetch = errors.New("failed to fetch image")

	// ErrImageDecode indicates an image could not be decoded or re-encoded.
	ErrImageDecode = errors.New("failed to decode image")
)
