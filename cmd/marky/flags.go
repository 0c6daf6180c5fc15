package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by every mode.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// inputFlags selects where Markdown comes from.
type inputFlags struct {
	text string // --string
}

// outputFlags selects where the rendered page goes.
type outputFlags struct {
	out    string
	stdout bool
	open   bool
	pdf    bool
}

// featureFlags toggles optional renderers.
type featureFlags struct {
	highlight bool
	math      bool
	diagrams  bool
	all       bool
}

// imageFlags controls image embedding.
type imageFlags struct {
	include  string
	optimize bool
}

// modeFlags selects watch or live mode.
type modeFlags struct {
	watch bool
	live  bool
}

// liveFlags configures the preview server.
type liveFlags struct {
	host   string
	port   int
	noOpen bool
}

// infoFlags print information and exit.
type infoFlags struct {
	themes      bool
	whereConfig bool
	printConfig bool
	version     bool
	help        bool
}

// cliFlags holds every flag of the marky command.
type cliFlags struct {
	common   commonFlags
	theme    string
	input    inputFlags
	output   outputFlags
	features featureFlags
	images   imageFlags
	mode     modeFlags
	live     liveFlags
	info     infoFlags

	// changed records flags set on the command line, by long name.
	changed map[string]bool
}

// isSet reports whether the named flag was given explicitly.
func (f *cliFlags) isSet(name string) bool {
	return f.changed[name]
}

// wantsInfo reports whether an information flag was given.
func (f *cliFlags) wantsInfo() bool {
	return f.info.themes || f.info.whereConfig || f.info.printConfig
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.out, "out", "o", "", "output file")
	fs.BoolVar(&f.stdout, "stdout", false, "write output to stdout")
	fs.BoolVarP(&f.open, "open", "O", false, "open the output file in the default app")
	fs.BoolVarP(&f.pdf, "pdf", "p", false, "save the document as PDF using headless Chrome")
}

// addFeatureFlags adds renderer toggles to a FlagSet.
func addFeatureFlags(fs *flag.FlagSet, f *featureFlags) {
	fs.BoolVarP(&f.highlight, "highlight", "H", false, "enable syntax highlighting")
	fs.BoolVarP(&f.math, "math", "M", false, "enable math rendering with KaTeX")
	fs.BoolVarP(&f.diagrams, "diagrams", "D", false, "enable diagram rendering with Mermaid")
	fs.BoolVarP(&f.all, "all", "A", false, "enable all extra renderers")
}

// addImageFlags adds image flags to a FlagSet.
func addImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.StringVar(&f.include, "images", "", "embed images: none, local, remote, all")
	fs.BoolVar(&f.optimize, "optimize", false, "re-encode embedded local images")
}

// addModeFlags adds watch and live flags to a FlagSet.
func addModeFlags(fs *flag.FlagSet, f *modeFlags) {
	fs.BoolVarP(&f.watch, "watch", "w", false, "recompile the file on save")
	fs.BoolVarP(&f.live, "live", "l", false, "live preview in the browser")
}

// addLiveFlags adds preview server flags to a FlagSet.
func addLiveFlags(fs *flag.FlagSet, f *liveFlags) {
	fs.StringVar(&f.host, "host", "", "host of the live server")
	fs.IntVar(&f.port, "port", 0, "port of the live server (0 = any free port)")
	fs.BoolVar(&f.noOpen, "no-open", false, "do not open the browser in live mode")
}

// addInfoFlags adds information flags to a FlagSet.
func addInfoFlags(fs *flag.FlagSet, f *infoFlags) {
	fs.BoolVar(&f.themes, "themes", false, "list available themes")
	fs.BoolVar(&f.whereConfig, "where-config", false, "print the config directory")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective configuration")
	fs.BoolVar(&f.version, "version", false, "show version information")
	fs.BoolVarP(&f.help, "help", "h", false, "show this help")
}

// parseFlags parses command-line arguments, without the program name, and
// returns the positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("marky", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	f := &cliFlags{changed: make(map[string]bool)}

	fs.StringVarP(&f.theme, "theme", "t", "", "theme name, CSS path or URL")
	fs.StringVar(&f.input.text, "string", "", "read input from string")

	addOutputFlags(fs, &f.output)
	addFeatureFlags(fs, &f.features)
	addImageFlags(fs, &f.images)
	addModeFlags(fs, &f.mode)
	addLiveFlags(fs, &f.live)
	addInfoFlags(fs, &f.info)
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })

	return f, fs.Args(), nil
}
