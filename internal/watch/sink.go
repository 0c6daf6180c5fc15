package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-marky"
	"github.com/alnah/go-marky/internal/broadcast"
	"github.com/alnah/go-marky/internal/fileutil"
)

// Renderer is the part of marky.Renderer the sinks use.
type Renderer interface {
	Render(ctx context.Context, doc marky.Document) ([]byte, error)
	RenderBody(ctx context.Context, doc marky.Document) (string, error)
}

// Sink receives every recompiled Document.
type Sink interface {
	Deliver(ctx context.Context, doc marky.Document) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, doc marky.Document) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, doc marky.Document) error {
	return f(ctx, doc)
}

// FileSink renders whole pages and writes them to a file. Each write goes
// through a temporary file and a rename, so readers never see a partial
// page.
type FileSink struct {
	renderer Renderer
	path     string
	logger   *slog.Logger
}

// NewFileSink creates a FileSink writing to path.
func NewFileSink(r Renderer, path string, logger *slog.Logger) *FileSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSink{renderer: r, path: path, logger: logger}
}

// Deliver implements Sink.
func (s *FileSink) Deliver(ctx context.Context, doc marky.Document) error {
	start := time.Now()
	data, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", marky.ErrIO, err)
	}
	s.logger.Info("wrote output", "path", s.path, "bytes", len(data), "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// BroadcastSink renders bodies and publishes them to live clients.
type BroadcastSink struct {
	renderer Renderer
	slot     *broadcast.Slot
}

// NewBroadcastSink creates a BroadcastSink publishing into slot.
func NewBroadcastSink(r Renderer, slot *broadcast.Slot) *BroadcastSink {
	return &BroadcastSink{renderer: r, slot: slot}
}

// Deliver implements Sink.
func (s *BroadcastSink) Deliver(ctx context.Context, doc marky.Document) error {
	body, err := s.renderer.RenderBody(ctx, doc)
	if err != nil {
		return err
	}
	s.slot.Publish(body)
	return nil
}
