package marky_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-marky"
)

// Example renders a document to a standalone HTML page.
func Example() {
	r, err := marky.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	doc := marky.NewDocument("# Hello\nworld", marky.RenderOptions{
		Theme:     marky.DefaultTheme(),
		Highlight: true,
	})
	page, err := r.Render(context.Background(), doc)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(string(page), "<title>Hello</title>"))
	// Output: true
}

// ExampleRenderer_Compile compiles Markdown without page assembly.
func ExampleRenderer_Compile() {
	r, err := marky.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	body, err := r.Compile("Euler: $e^{i\\pi}+1=0$", marky.RenderOptions{Math: true})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(body)
	// Output: <p>Euler: <code class="language-math math-inline">e^{i\pi}+1=0</code></p>
}

// ExampleThemeCatalog_ClosestMatch suggests a theme for a misspelled name.
func ExampleThemeCatalog_ClosestMatch() {
	catalog, err := marky.LoadThemes("")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if _, ok := catalog.Lookup("githb"); !ok {
		if suggestion, ok := catalog.ClosestMatch("githb"); ok {
			fmt.Println("did you mean", suggestion.Name)
		}
	}
	// Output: did you mean github
}

// ExampleKindOf classifies errors for exit codes.
func ExampleKindOf() {
	r, err := marky.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	_, err = r.Compile("\xff", marky.RenderOptions{})
	fmt.Println(marky.KindOf(err))
	// Output: encoding
}
