package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteRelativePaths converts relative image and link paths to absolute
// file:// URLs so a page loaded from a temporary file still finds them.
// If sourceDir is empty, returns the HTML unchanged.
//
// Only img[src] and a[href] are rewritten. Paths escaping sourceDir are
// left as they are.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewrite := func(attr *html.Attribute) {
		if !isRelativePath(attr.Val) {
			return
		}
		absPath := filepath.Join(absSourceDir, attr.Val)
		if !isPathUnderDir(absPath, absSourceDir) {
			return
		}
		attr.Val = pathToFileURL(absPath)
	}
	elementAttrs(doc, atom.Img, "src", rewrite)
	elementAttrs(doc, atom.A, "href", rewrite)

	return renderHTML(doc, isFragment)
}

// isRelativePath reports whether path is a relative file reference: not a
// URL, data URI, anchor or absolute path.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if hasScheme(path) {
		return false
	}
	return !filepath.IsAbs(path)
}

// hasScheme reports whether ref starts with a URI scheme. Single letters
// are Windows drive names, not schemes.
func hasScheme(ref string) bool {
	i := strings.IndexByte(ref, ':')
	if i < 2 {
		return false
	}
	for j, c := range ref[:i] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
