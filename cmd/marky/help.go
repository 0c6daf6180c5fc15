package main

import (
	"fmt"
	"io"

	"github.com/alnah/go-marky/internal/config"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: marky [flags] [file]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Markdown to a standalone HTML page or PDF, once, on every save,")
	fmt.Fprintln(w, "or as a live preview in the browser.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input (first match wins):")
	fmt.Fprintln(w, "  file                      Markdown file")
	fmt.Fprintln(w, "      --string <s>          Markdown text")
	fmt.Fprintln(w, "                            Piped stdin when neither is given")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --out <path>          Output file (default: input with .html or .pdf)")
	fmt.Fprintln(w, "      --stdout              Write output to stdout")
	fmt.Fprintln(w, "  -O, --open                Open the output file in the default app")
	fmt.Fprintln(w, "  -p, --pdf                 Save as PDF using headless Chrome")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintf(w, "  -t, --theme <s>           Theme name, CSS path or URL (default: %s)\n", config.DefaultTheme)
	fmt.Fprintln(w, "  -H, --highlight           Syntax highlighting (on by default, --highlight=false)")
	fmt.Fprintln(w, "  -M, --math                Math rendering with KaTeX")
	fmt.Fprintln(w, "  -D, --diagrams            Diagram rendering with Mermaid")
	fmt.Fprintln(w, "  -A, --all                 Enable all extra renderers")
	fmt.Fprintf(w, "      --images <s>          Embed images: none, local, remote, all (default: %s)\n", config.DefaultImageInclude)
	fmt.Fprintln(w, "      --optimize            Re-encode embedded local images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Modes:")
	fmt.Fprintln(w, "  -w, --watch               Recompile the file on save")
	fmt.Fprintln(w, "  -l, --live                Live preview in the browser")
	fmt.Fprintf(w, "      --host <s>            Live server host (default: %s)\n", config.DefaultHost)
	fmt.Fprintf(w, "      --port <n>            Live server port, 0 = any (default: %d)\n", config.DefaultPort)
	fmt.Fprintln(w, "      --no-open             Do not open the browser in live mode")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Information:")
	fmt.Fprintln(w, "      --themes              List available themes")
	fmt.Fprintln(w, "      --where-config        Print the config directory")
	fmt.Fprintln(w, "      --print-config        Print the effective configuration")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MARKY_CONFIG, MARKY_THEME, MARKY_IMAGES, MARKY_HOST, MARKY_PORT,")
	fmt.Fprintf(w, "  MARKY_PDF_TIMEOUT, %s\n", config.EnvConfigDir)
}
