package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

//go:embed locales/*.json
var localeFS embed.FS

// Locales returns the language documents bundled with the binary.
func Locales() fs.FS {
	sub, err := fs.Sub(localeFS, "locales")
	if err != nil {
		panic(err)
	}
	return sub
}

// Store retrieves language documents. Implementations must not cache:
// every Fetch is a fresh read.
type Store interface {
	Fetch(ctx context.Context, lang string) (Dictionary, error)
}

// LoadError reports a failed dictionary load (network, status or parse).
type LoadError struct {
	Lang   string
	Source string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("loading %s dictionary from %s: status %d", e.Lang, e.Source, e.Status)
	}
	return fmt.Sprintf("loading %s dictionary from %s: %v", e.Lang, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err is, or wraps, a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// HTTPStore fetches <base>/lang/<code>.json over HTTP.
type HTTPStore struct {
	base   *url.URL
	client *http.Client
	now    func() time.Time
}

// NewHTTPStore creates a store rooted at baseURL. The language path is
// resolved relative to it, so "https://example.com/site/" fetches
// "https://example.com/site/lang/de.json".
func NewHTTPStore(baseURL string, client *http.Client) (*HTTPStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing language base URL %q: %w", baseURL, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPStore{base: u, client: client, now: time.Now}, nil
}

// URL returns the cache-busted document URL for lang.
func (s *HTTPStore) URL(lang string) string {
	ref := &url.URL{Path: "lang/" + lang + ".json"}
	u := s.base.ResolveReference(ref)
	q := u.Query()
	q.Set("v", strconv.FormatInt(s.now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *HTTPStore) Fetch(ctx context.Context, lang string) (Dictionary, error) {
	target := s.URL(lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &LoadError{Lang: lang, Source: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &LoadError{Lang: lang, Source: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{Lang: lang, Source: target, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Lang: lang, Source: target, Err: fmt.Errorf("reading body: %w", err)}
	}
	dict, err := Parse(body)
	if err != nil {
		return nil, &LoadError{Lang: lang, Source: target, Err: err}
	}
	return dict, nil
}

// FSStore reads <code>.json files from a filesystem.
type FSStore struct {
	fsys fs.FS
	name string
}

// NewFSStore reads language documents from the root of fsys.
func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys, name: "embedded locales"}
}

// NewDirStore reads language documents from dir.
func NewDirStore(dir string) *FSStore {
	return &FSStore{fsys: os.DirFS(dir), name: dir}
}

func (s *FSStore) Fetch(ctx context.Context, lang string) (Dictionary, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Lang: lang, Source: s.name, Err: err}
	}
	data, err := fs.ReadFile(s.fsys, lang+".json")
	if err != nil {
		return nil, &LoadError{Lang: lang, Source: s.name, Err: err}
	}
	dict, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Lang: lang, Source: s.name, Err: err}
	}
	return dict, nil
}
