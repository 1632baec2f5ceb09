// Package assets fetches and decodes the viewer's model bundle.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultMaxSize bounds a single fetched resource.
const DefaultMaxSize = 512 << 20

// Fetcher resolves resource references to bytes.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Source fetches local files and http(s) URLs. Relative file paths are
// resolved against Root. Nothing is cached.
type Source struct {
	Root    string
	Client  *http.Client
	MaxSize int64
}

// NewSource creates a source rooted at root.
func NewSource(root string) *Source {
	return &Source{
		Root:    root,
		Client:  http.DefaultClient,
		MaxSize: DefaultMaxSize,
	}
}

// Fetch reads the referenced resource.
func (s *Source) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsURL(ref) {
		return s.fetchURL(ctx, ref)
	}
	return s.fetchFile(ref)
}

func (s *Source) fetchFile(ref string) ([]byte, error) {
	p := ref
	if !filepath.IsAbs(p) && s.Root != "" {
		p = filepath.Join(s.Root, p)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.readAll(f, ref)
}

func (s *Source) fetchURL(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", ref, resp.Status)
	}
	return s.readAll(resp.Body, ref)
}

func (s *Source) readAll(r io.Reader, ref string) ([]byte, error) {
	limit := s.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s exceeds %d bytes", ref, limit)
	}
	return data, nil
}

// IsURL reports whether ref is an http or https URL.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Resolve returns rel interpreted relative to the resource base.
func Resolve(base, rel string) string {
	if IsURL(rel) || filepath.IsAbs(rel) {
		return rel
	}
	if IsURL(base) {
		u, err := url.Parse(base)
		if err != nil {
			return rel
		}
		r, err := url.Parse(rel)
		if err != nil {
			return rel
		}
		return u.ResolveReference(r).String()
	}
	return filepath.Join(filepath.Dir(base), filepath.FromSlash(path.Clean(rel)))
}
