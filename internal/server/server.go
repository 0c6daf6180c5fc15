// Package server serves the live preview: a placeholder page, the watched
// file's sibling files, and a WebSocket that pushes every new body.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/browser"

	"github.com/alnah/go-marky"
	"github.com/alnah/go-marky/internal/broadcast"
)

// ErrBind is returned when the listen address cannot be bound.
var ErrBind = errors.New("cannot bind address")

// DefaultAddr is the listen address of the preview.
const DefaultAddr = "127.0.0.1:8080"

const readHeaderTimeout = 10 * time.Second

// Renderer renders the placeholder page.
type Renderer interface {
	Render(ctx context.Context, doc marky.Document) ([]byte, error)
}

// Config configures a Server.
type Config struct {
	// Addr is the host:port to listen on. Empty uses DefaultAddr.
	Addr string

	// RootDir is served for every path but "/".
	RootDir string

	// Options render the placeholder page. Live is forced on.
	Options marky.RenderOptions

	// OpenBrowser opens the preview URL once listening.
	OpenBrowser bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the live preview HTTP server.
type Server struct {
	cfg      Config
	renderer Renderer
	slot     *broadcast.Slot
	logger   *slog.Logger
	open     func(url string) error

	httpServer *http.Server
	listener   net.Listener

	mu      sync.Mutex
	clients sync.WaitGroup
}

// New creates a Server that pushes the bodies published into slot.
func New(cfg Config, r Renderer, slot *broadcast.Slot) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}
	cfg.Options.Live = true
	cfg.Options.PDF = false

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		renderer: r,
		slot:     slot,
		logger:   logger,
		open:     browser.OpenURL,
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelDebug),
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleRoot)
	r.Get("/*", s.handleStatic)
	r.Head("/*", s.handleStatic)
	return r
}

// handleStatic serves regular files under RootDir. Directories are 404 and
// index.html is served as itself, with no redirect.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	f, err := http.Dir(s.cfg.RootDir).Open(path.Clean("/" + r.URL.Path))
	if err != nil {
		httpError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		httpError(w, err)
		return
	}
	if info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "404 page not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "403 Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if isWebSocketUpgrade(r) {
		s.serveWebSocket(w, r)
		return
	}

	page, err := s.renderer.Render(r.Context(), marky.PlaceholderDocument(s.cfg.Options))
	if err != nil {
		s.logger.Error("placeholder render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page)
}

func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// serveWebSocket pushes every new version to one client until the client
// leaves or the slot closes.
func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.clients.Add(1)
	s.mu.Unlock()
	defer s.clients.Done()

	logger := s.logger.With("remote", r.RemoteAddr)
	logger.Debug("client connected")

	// Client frames are discarded; close frames end ctx.
	ctx := conn.CloseRead(r.Context())
	sub := s.slot.Subscribe()

	for {
		body, version, err := sub.Next(ctx)
		if err != nil {
			if errors.Is(err, broadcast.ErrClosed) {
				_ = conn.Close(websocket.StatusNormalClosure, "preview stopped")
				logger.Debug("client closed on shutdown")
				return
			}
			_ = conn.CloseNow()
			logger.Debug("client disconnected", "reason", err)
			return
		}

		if err := conn.Write(ctx, websocket.MessageText, []byte(body)); err != nil {
			_ = conn.CloseNow()
			logger.Debug("client write failed", "version", version, "error", err)
			return
		}
		logger.Debug("body sent", "version", version, "bytes", len(body))
	}
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: %w: %v", marky.ErrIO, ErrBind, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL returns the preview URL. Unspecified hosts are shown as localhost.
func (s *Server) URL() string {
	addr := s.cfg.Addr
	if a := s.Addr(); a != nil {
		addr = a.String()
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	if ip := net.ParseIP(host); host == "" || ip != nil && ip.IsUnspecified() {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}

// Serve accepts connections until Shutdown. It binds first if Listen was
// not called. Opening the browser is best effort.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	url := s.URL()
	s.logger.Info("serving preview", "url", url, "root", s.cfg.RootDir)
	if s.cfg.OpenBrowser {
		if err := s.open(url); err != nil {
			s.logger.Warn("cannot open browser", "url", url, "error", err)
		}
	}

	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%w: %v", marky.ErrIO, err)
	}
	return nil
}

// Shutdown stops accepting connections, sends a close frame to every
// client and waits for them, or for ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.slot.Close()
	err := s.httpServer.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.clients.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// Run serves until ctx ends, then shuts down within grace.
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	errs := make(chan error, 1)
	go func() { errs <- s.Serve() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errs
}
