package browser

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/trustscan/internal/model"
)

// FileHost serves a saved HTML document as the active tab.
type FileHost struct {
	// path is the HTML file on disk.
	path string

	// pageURL is the address the document was saved from. It is reported
	// as the tab URL and used to resolve relative script sources.
	pageURL string
}

// NewFileHost creates a host for the HTML file at path, saved from pageURL.
func NewFileHost(path, pageURL string) *FileHost {
	return &FileHost{path: path, pageURL: pageURL}
}

// ActiveTab returns the file as a tab.
func (h *FileHost) ActiveTab(_ context.Context) (Tab, error) {
	return Tab{ID: h.path, URL: h.pageURL}, nil
}

// Extract reads the file and collects its script elements.
func (h *FileHost) Extract(_ context.Context, tab Tab) (*Page, error) {
	data, err := os.ReadFile(h.path) //nolint:gosec // User-provided page path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	scripts, err := ExtractScripts(strings.NewReader(string(data)), tab.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	return &Page{
		Content: string(data),
		Scripts: scripts,
	}, nil
}

// ExtractScripts parses an HTML document and returns every script element
// in document order, reduced the same way the in-browser routine does:
// inline code as content, and the src attribute resolved against baseURL
// (or InlineSource when absent).
//
// Design decision: We use golang.org/x/net/html rather than regex because
// script bodies may contain "</" sequences and markup is often malformed.
func ExtractScripts(r io.Reader, baseURL string) ([]model.Script, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var scripts []model.Script
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			scripts = append(scripts, model.NewScript(innerText(n), resolveSrc(base, scriptSrc(n))))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	return scripts, nil
}

// innerText concatenates the text children of a node.
func innerText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// scriptSrc returns the trimmed src attribute of a script element.
func scriptSrc(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "src" {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// resolveSrc makes a script source absolute, like the DOM's script.src.
func resolveSrc(base *url.URL, src string) string {
	if src == "" || base == nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}
