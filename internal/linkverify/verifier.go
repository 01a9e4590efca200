package linkverify

import (
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ctcl/ctclsite/internal/site"
)

// Resolver answers whether a site path is served. *site.Snapshot implements it.
type Resolver interface {
	Route(path string) (site.Route, bool)
	Redirect(path string) (string, bool)
	OutputDir() string
	SiteURL() string
}

// BrokenLink is an internal link that resolves to nothing.
type BrokenLink struct {
	Page   string
	URL    string
	Tag    string
	Reason string
}

// Verifier checks rendered pages against a resolver.
type Verifier struct {
	resolver Resolver
}

// NewVerifier returns a verifier for the given resolver.
func NewVerifier(r Resolver) *Verifier {
	return &Verifier{resolver: r}
}

// VerifyPage extracts the links of the page rendered at pagePath and returns
// those that point nowhere.
func (v *Verifier) VerifyPage(pagePath string, body io.Reader) ([]BrokenLink, error) {
	links, err := ExtractLinksFromReader(body, v.resolver.SiteURL())
	if err != nil {
		return nil, err
	}

	// Relative references resolve the way a browser resolves them against the served URL.
	pageURL := &url.URL{Path: site.NormalizeRoute(pagePath)}
	var broken []BrokenLink
	for _, link := range links {
		if !ShouldVerifyLink(link) {
			continue
		}
		if reason := v.check(pageURL, link.URL); reason != "" {
			broken = append(broken, BrokenLink{Page: pagePath, URL: link.URL, Tag: link.Tag, Reason: reason})
		}
	}
	return broken, nil
}

func (v *Verifier) check(pageURL *url.URL, raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "unparseable URL"
	}
	if u.Path == "" {
		return ""
	}
	target := pageURL.ResolveReference(&url.URL{Path: u.Path}).Path

	if rest, ok := strings.CutPrefix(target, "/static/"); ok {
		file := filepath.Join(v.resolver.OutputDir(), filepath.FromSlash(path.Clean("/" + rest)))
		info, err := os.Stat(file)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return "static file missing"
		case err != nil:
			return err.Error()
		case info.IsDir():
			return "static path is a directory"
		}
		return ""
	}
	if _, ok := v.resolver.Route(target); ok {
		return ""
	}
	if _, ok := v.resolver.Redirect(target); ok {
		return ""
	}
	return "no page or redirect"
}
