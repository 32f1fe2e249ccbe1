package logos

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
	"time"

	"k8s.io/klog/v2"
)

// Placeholder is the logo used whenever no real logo is available.
const Placeholder = "placeholder.svg"

// DefaultTimeout bounds a single logo download.
const DefaultTimeout = 10 * time.Second

// DefaultMaxSize is the largest logo body accepted.
const DefaultMaxSize = 4 << 20

// Resolver decides what goes into an item's logo field. With an empty Dir
// logo URLs are passed through untouched; otherwise each logo is downloaded
// into Dir and referenced by file name.
type Resolver struct {
	Dir    string
	Client *http.Client

	// MaxSize caps the logo body in bytes; zero means DefaultMaxSize.
	MaxSize int64
}

// NewResolver creates a resolver that downloads into dir using the given
// per-request timeout. A zero timeout means DefaultTimeout.
func NewResolver(dir string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		Dir:    dir,
		Client: &http.Client{Timeout: timeout},
	}
}

// Resolve never fails: any problem downloading the logo results in
// Placeholder.
func (r *Resolver) Resolve(ctx context.Context, logoURL string) string {
	if r.Dir == "" {
		if logoURL != "" {
			return logoURL
		}
		return Placeholder
	}
	if logoURL == "" {
		return Placeholder
	}

	name, err := r.download(ctx, logoURL)
	if err != nil {
		klog.FromContext(ctx).V(2).Info("logo download failed, using placeholder", "url", logoURL, "error", err)
		return Placeholder
	}
	return name
}

func (r *Resolver) download(ctx context.Context, logoURL string) (string, error) {
	name, ok := FileName(logoURL)
	if !ok {
		return "", fmt.Errorf("cannot derive file name from %q", logoURL)
	}

	// The directory exists once a download has been attempted, even if it fails.
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating logo directory: %w", err)
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	maxSize := r.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return "", fmt.Errorf("reading logo: %w", err)
	}
	if int64(len(body)) > maxSize {
		return "", fmt.Errorf("logo exceeds %d bytes", maxSize)
	}

	// Logos sharing a file name overwrite each other.
	if err := os.WriteFile(filepath.Join(r.Dir, name), body, 0644); err != nil {
		return "", fmt.Errorf("writing logo: %w", err)
	}
	return name, nil
}

// FileName derives the local file name for a logo URL: the last path segment,
// still percent-encoded, with any query string or fragment removed. It reports
// false when no usable name exists.
func FileName(logoURL string) (string, bool) {
	var p string
	if u, err := url.Parse(logoURL); err == nil {
		p = u.EscapedPath()
	} else {
		p, _, _ = strings.Cut(logoURL, "?")
		p, _, _ = strings.Cut(p, "#")
	}

	if p == "" || strings.HasSuffix(p, "/") {
		return "", false
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == ".." {
		return "", false
	}
	return name, true
}

// Predictor resolves logos to the value a Resolver with the same Dir would
// produce if every download succeeded, without touching the network.
type Predictor struct {
	Dir string
}

func (p Predictor) Resolve(_ context.Context, logoURL string) string {
	if logoURL == "" {
		return Placeholder
	}
	if p.Dir == "" {
		return logoURL
	}
	if name, ok := FileName(logoURL); ok {
		return name
	}
	return Placeholder
}
