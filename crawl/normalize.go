package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/sitesearch"
)

// Normalizer canonicalizes links discovered while crawling a single domain.
type Normalizer struct {
	// Domain is the host, including any port, that links must stay on.
	Domain string
}

// NewNormalizer creates a Normalizer confined to the seed URL's host.
func NewNormalizer(seed string) (*Normalizer, error) {
	u, err := url.Parse(strings.TrimSpace(seed))
	if err != nil || !isHTTPScheme(u.Scheme) || u.Host == "" {
		return nil, sitesearch.Errorf(sitesearch.EINVALID, "seed must be an absolute http(s) URL: %q", seed)
	}
	return &Normalizer{Domain: strings.ToLower(u.Host)}, nil
}

// Normalize resolves href found on the page at base into a canonical URL.
// It returns false for fragment-only links, non-HTTP schemes, links to other
// hosts and malformed input.
//
// Relative links resolve against the site root of base: scheme, host and the
// first path segment when that segment is a directory. A root-relative link
// such as "/foo" found under https://example.test/crawl/ becomes
// https://example.test/crawl/foo.
func (n *Normalizer) Normalize(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	b, err := url.Parse(base)
	if err != nil || !isHTTPScheme(b.Scheme) || b.Host == "" {
		return "", false
	}
	root := siteRoot(b)

	switch {
	case ref.Scheme != "":
		if !isHTTPScheme(ref.Scheme) || ref.Opaque != "" {
			return "", false
		}
	case ref.Host != "":
		// Protocol-relative.
		ref.Scheme = b.Scheme
	case strings.HasPrefix(ref.Path, "/"):
		if !underRoot(ref.Path, root.Path) {
			ref.Path = root.Path + strings.TrimPrefix(ref.Path, "/")
			ref.RawPath = ""
		}
	}

	if ref.Host != "" && !strings.EqualFold(ref.Host, n.Domain) {
		return "", false
	}

	resolved := root.ResolveReference(ref)
	return canonical(resolved), true
}

// siteRoot returns scheme+host plus the first path segment of u if that
// segment is a directory.
func siteRoot(u *url.URL) *url.URL {
	root := &url.URL{Scheme: strings.ToLower(u.Scheme), Host: strings.ToLower(u.Host), Path: "/"}
	rest := strings.TrimPrefix(u.Path, "/")
	if i := strings.Index(rest, "/"); i > 0 {
		root.Path = "/" + rest[:i+1]
	}
	return root
}

func underRoot(path, rootPath string) bool {
	if rootPath == "/" {
		return true
	}
	return strings.HasPrefix(path, rootPath) || path == strings.TrimSuffix(rootPath, "/")
}

func canonical(u *url.URL) string {
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil
	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u.String()
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}
