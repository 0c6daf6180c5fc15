package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-marky"
	"github.com/alnah/go-marky/internal/broadcast"
	"github.com/alnah/go-marky/internal/config"
	"github.com/alnah/go-marky/internal/fileutil"
	"github.com/alnah/go-marky/internal/hints"
	"github.com/alnah/go-marky/internal/server"
	"github.com/alnah/go-marky/internal/watch"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrNoInput     = errors.New("no input is given, see --help")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

const (
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
	shutdownGrace   = 5 * time.Second
)

// runMain runs the command and returns its exit code.
func runMain(args []string, env *Environment) int {
	if len(args) > 0 {
		args = args[1:]
	}

	flags, positional, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		fmt.Fprintln(env.Stderr, "Run 'marky --help' for usage.")
		return ExitUsage
	}

	if flags.info.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.info.version {
		fmt.Fprintf(env.Stdout, "marky %s\n", Version)
		return ExitSuccess
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, flags, positional, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", addHint(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run validates flags, loads configuration and dispatches to the selected
// mode.
func run(ctx context.Context, f *cliFlags, args []string, env *Environment) (err error) {
	if err := validateFlags(f, args); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, f.common)
	warnUnknownEnvVars(env.Stderr)

	configDir, err := config.Dir()
	if err != nil {
		return err
	}
	if f.info.whereConfig {
		fmt.Fprintln(env.Stdout, configDir)
		return nil
	}

	cfg, err := loadConfig(f, loadEnvConfig(), configDir)
	if err != nil {
		return err
	}
	if f.info.printConfig {
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(data)
		return err
	}

	catalog, err := marky.LoadThemes(configDir)
	if err != nil {
		return err
	}
	if f.info.themes {
		printThemes(env.Stdout, catalog)
		return nil
	}

	th, err := resolveTheme(cfg.Theme, catalog)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cfg, f, th)
	if err != nil {
		return err
	}
	logger.Debug("render options", "theme", th.String(), "options", opts.String())

	r, err := marky.NewRenderer(
		marky.WithLogger(logger),
		marky.WithConfigDir(configDir),
		marky.WithPDFTimeout(cfg.PDFTimeout()),
	)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	switch {
	case f.mode.live:
		return runLive(ctx, r, cfg, args[0], opts, logger)
	case f.mode.watch:
		return runWatch(ctx, r, cfg, f, args[0], opts, env, logger)
	default:
		return runOnce(ctx, r, f, args, opts, env, logger)
	}
}

// usagef returns an ErrUsage error.
func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// validateFlags rejects flag combinations that cannot be honored.
func validateFlags(f *cliFlags, args []string) error {
	hasFile := len(args) == 1
	watching := f.mode.watch || f.mode.live

	switch {
	case len(args) > 1:
		return usagef("expected at most one file, got %d", len(args))
	case hasFile && f.isSet("string"):
		return usagef("a file and --string are mutually exclusive")
	case f.output.out != "" && f.output.stdout:
		return usagef("--out and --stdout are mutually exclusive")
	case f.mode.watch && f.mode.live:
		return usagef("--watch and --live are mutually exclusive")
	case watching && !hasFile:
		return usagef("watching needs a file to watch")
	case watching && f.output.stdout:
		return usagef("--stdout cannot be used when watching")
	case f.mode.live && f.output.pdf:
		return usagef("the live preview shows HTML, drop --pdf")
	case f.common.quiet && f.common.verbose:
		return usagef("--quiet and --verbose are mutually exclusive")
	case f.wantsInfo() && (hasFile || f.isSet("string") || f.output.out != "" || f.output.stdout || watching):
		return usagef("information flags take no input or output")
	}
	return nil
}

// newLogger returns a text logger on w: debug with --verbose, errors only
// with --quiet.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig builds the effective configuration.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig(f *cliFlags, env *envConfig, configDir string) (*config.Config, error) {
	name := f.common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, withHint(err, hints.ForConfigNotFound(configCandidates(name, configDir), configDir))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	mergeFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configCandidates lists the files LoadConfig tries for name.
func configCandidates(name, configDir string) []string {
	if fileutil.IsFilePath(name) {
		return []string{name}
	}
	paths := []string{name + ".yaml", name + ".yml"}
	if configDir != "" {
		paths = append(paths,
			filepath.Join(configDir, name+".yaml"),
			filepath.Join(configDir, name+".yml"))
	}
	return paths
}

// mergeFlags applies explicitly given CLI flags over cfg.
func mergeFlags(f *cliFlags, cfg *config.Config) {
	if f.theme != "" {
		cfg.Theme = f.theme
	}

	if f.features.all {
		cfg.Features.Highlight = true
		cfg.Features.Math = true
		cfg.Features.Diagrams = true
	}
	if f.isSet("highlight") {
		cfg.Features.Highlight = f.features.highlight
	}
	if f.isSet("math") {
		cfg.Features.Math = f.features.math
	}
	if f.isSet("diagrams") {
		cfg.Features.Diagrams = f.features.diagrams
	}

	if f.images.include != "" {
		cfg.Images.Include = f.images.include
	}
	if f.isSet("optimize") {
		cfg.Images.Optimize = f.images.optimize
	}

	if f.isSet("host") {
		cfg.Live.Host = f.live.host
	}
	if f.isSet("port") {
		cfg.Live.Port = f.live.port
	}
	if f.live.noOpen {
		cfg.Live.OpenBrowser = false
	}
}

// printThemes writes reachable theme names, one per line. Built-ins
// shadowed by a manifest entry are listed once.
func printThemes(w io.Writer, catalog marky.ThemeCatalog) {
	seen := make(map[string]bool)
	for _, name := range catalog.Names() {
		if seen[name] {
			continue
		}
		seen[name] = true
		fmt.Fprintln(w, name)
	}
}

// resolveTheme turns the --theme value into a Theme: a URL, a catalog
// name, or a CSS file relative to the working directory.
func resolveTheme(value string, catalog marky.ThemeCatalog) (marky.Theme, error) {
	if fileutil.IsURL(value) {
		return marky.URLTheme(value, value), nil
	}
	if t, ok := catalog.Lookup(value); ok {
		return t, nil
	}
	if fileutil.IsFilePath(value) || strings.EqualFold(filepath.Ext(value), ".css") {
		abs, err := filepath.Abs(value)
		if err != nil {
			return marky.Theme{}, fmt.Errorf("%w: theme %s: %v", marky.ErrIO, value, err)
		}
		name := strings.TrimSuffix(filepath.Base(value), filepath.Ext(value))
		return marky.PathTheme(name, abs), nil
	}

	suggestion := ""
	if match, ok := catalog.ClosestMatch(value); ok {
		suggestion = match.Name
	}
	err := fmt.Errorf("%w: unknown theme %q", marky.ErrConfig, value)
	return marky.Theme{}, withHint(err, hints.ForThemeNotFound(suggestion, nil))
}

// buildOptions converts the effective configuration to render options.
func buildOptions(cfg *config.Config, f *cliFlags, th marky.Theme) (marky.RenderOptions, error) {
	include, err := marky.ParseImageInclusion(cfg.Images.Include)
	if err != nil {
		return marky.RenderOptions{}, err
	}
	return marky.RenderOptions{
		Theme:          th,
		Highlight:      cfg.Features.Highlight,
		Math:           cfg.Features.Math,
		Diagrams:       cfg.Features.Diagrams,
		Images:         include,
		OptimizeImages: cfg.Images.Optimize,
		PDF:            f.output.pdf,
	}, nil
}

// outputExt returns the extension of rendered files.
func outputExt(opts marky.RenderOptions) string {
	if opts.PDF {
		return ".pdf"
	}
	return ".html"
}

// readInput returns the Markdown text and, for file input, its path.
// A file wins over --string, which wins over piped stdin.
func readInput(f *cliFlags, args []string, env *Environment) (text, path string, err error) {
	switch {
	case len(args) == 1:
		path = args[0]
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
		if err != nil {
			return "", "", fmt.Errorf("%w %s: %w", ErrReadInput, path, err)
		}
		return string(data), path, nil
	case f.isSet("string"):
		return f.input.text, "", nil
	case !env.StdinIsTerminal():
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("%w from stdin: %w", ErrReadInput, err)
		}
		return string(data), "", nil
	default:
		return "", "", ErrNoInput
	}
}

// sourceDir returns the directory relative references resolve against:
// the input's directory, else the working directory.
func sourceDir(path string) string {
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(path)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// runOnce renders the input a single time to a file or stdout.
func runOnce(ctx context.Context, r *marky.Renderer, f *cliFlags, args []string, opts marky.RenderOptions, env *Environment, logger *slog.Logger) error {
	text, path, err := readInput(f, args, env)
	if err != nil {
		return err
	}

	start := env.Now()
	doc := marky.NewDocument(text, opts).WithSourceDir(sourceDir(path))
	out, err := r.Render(ctx, doc)
	if err != nil {
		return err
	}
	elapsed := env.Now().Sub(start)

	if f.output.stdout {
		if _, err := env.Stdout.Write(out); err != nil {
			return fmt.Errorf("%w to stdout: %w", ErrWriteOutput, err)
		}
		logger.Info("rendered", "bytes", len(out), "took", formatDuration(elapsed))
		return nil
	}

	outPath := fileutil.OutputPath(f.output.out, path, outputExt(opts))
	if err := fileutil.WriteFileAtomic(outPath, out, filePermissions); err != nil {
		return withHint(fmt.Errorf("%w %s: %w", ErrWriteOutput, outPath, err), hints.ForOutputDirectory())
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stderr, "wrote %s to %s in %s\n", humanize.Bytes(uint64(len(out))), outPath, formatDuration(elapsed))
	}

	if f.output.open {
		if err := env.OpenFile(outPath); err != nil {
			logger.Warn("cannot open output", "path", outPath, "error", err)
		}
	}
	return nil
}

// runWatch rewrites the output file on every save until ctx ends.
func runWatch(ctx context.Context, r *marky.Renderer, cfg *config.Config, f *cliFlags, path string, opts marky.RenderOptions, env *Environment, logger *slog.Logger) error {
	outPath := fileutil.OutputPath(f.output.out, path, outputExt(opts))

	var sink watch.Sink = watch.NewFileSink(r, outPath, logger)
	if f.output.open {
		sink = openAfterFirst(sink, outPath, env.OpenFile, logger)
	}

	w, err := watch.New(path, opts, sink, watch.Options{
		Debounce: cfg.WatchDebounce(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logger.Info("watching", "file", w.Path(), "output", outPath, "theme", opts.Theme.Name)
	return w.Run(ctx)
}

// openAfterFirst opens path once, after the first successful delivery.
func openAfterFirst(next watch.Sink, path string, open func(string) error, logger *slog.Logger) watch.Sink {
	var once sync.Once
	return watch.SinkFunc(func(ctx context.Context, doc marky.Document) error {
		if err := next.Deliver(ctx, doc); err != nil {
			return err
		}
		once.Do(func() {
			if err := open(path); err != nil {
				logger.Warn("cannot open output", "path", path, "error", err)
			}
		})
		return nil
	})
}

// runLive serves the live preview of path until ctx ends. The watcher and
// the server share only the broadcast slot.
func runLive(ctx context.Context, r *marky.Renderer, cfg *config.Config, path string, opts marky.RenderOptions, logger *slog.Logger) error {
	slot := broadcast.New()

	w, err := watch.New(path, opts, watch.NewBroadcastSink(r, slot), watch.Options{
		Debounce: cfg.WatchDebounce(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:        cfg.Addr(),
		RootDir:     filepath.Dir(w.Path()),
		Options:     opts,
		OpenBrowser: cfg.Live.OpenBrowser,
		Logger:      logger,
	}, r, slot)
	if err := srv.Listen(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, shutdownGrace) })
	g.Go(func() error { return w.Run(gctx) })
	return g.Wait()
}

// formatDuration prints whole milliseconds.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
