package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"k8s.io/klog/v2"

	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/landscape"
)

const (
	// DefaultAPIURL lists every SDV working group project in one page.
	DefaultAPIURL = "https://projects.eclipse.org/api/projects?working_group=sdv&pagesize=90000"

	defaultTimeout = 60 * time.Second
	userAgent      = "landscape-generator"
)

// Options selects where projects are loaded from. File takes precedence
// over URL.
type Options struct {
	File string
	URL  string
}

// Load returns the project records from a local file or the remote API.
func Load(ctx context.Context, opts Options) ([]landscape.Project, error) {
	if opts.File != "" {
		return LoadFile(opts.File)
	}
	return NewClient(opts.URL, nil).Fetch(ctx)
}

// LoadFile reads a JSON list of project records.
func LoadFile(path string) ([]landscape.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading project file: %v", landscape.ErrIO, err)
	}
	projects, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return projects, nil
}

// Client fetches project records from the projects API.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a client for url (DefaultAPIURL when empty). A nil
// httpClient gets a client with a generous timeout.
func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{url: url, client: httpClient}
}

// Fetch performs a single GET. There are no retries and no pagination; the
// endpoint is expected to return every record at once.
func (c *Client) Fetch(ctx context.Context) ([]landscape.Project, error) {
	log := klog.FromContext(ctx)
	log.V(1).Info("fetching projects", "url", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", landscape.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching projects: %v", landscape.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: projects API returned HTTP %d", landscape.ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading projects response: %v", landscape.ErrNetwork, err)
	}

	projects, err := decode(body)
	if err != nil {
		return nil, fmt.Errorf("projects API response: %w", err)
	}
	log.V(1).Info("fetched projects", "count", len(projects))
	return projects, nil
}

func decode(data []byte) ([]landscape.Project, error) {
	var projects []landscape.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("%w: %v", landscape.ErrParse, err)
	}
	return projects, nil
}
