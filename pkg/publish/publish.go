package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v71/github"
	"golang.org/x/oauth2"
	"k8s.io/klog/v2"
)

// ErrUnchanged is returned when the target file already holds the content.
var ErrUnchanged = errors.New("landscape data is unchanged")

// Options describes where the generated document goes.
type Options struct {
	Owner string
	Repo  string
	Path  string
	// Base is the branch the pull request targets; the repository's default
	// branch when empty.
	Base   string
	DryRun bool
}

// Result describes the pull request that was opened
type Result struct {
	Branch string
	URL    string
	Number int
}

// Publisher commits a landscape document to a GitHub repository on a fresh
// branch and opens a pull request for it.
type Publisher struct {
	client *github.Client
	now    func() time.Time
}

// NewPublisher creates a publisher. An empty token gives an unauthenticated
// client, which is only useful for dry runs.
func NewPublisher(ctx context.Context, token string) *Publisher {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	return NewPublisherWithClient(github.NewClient(httpClient))
}

// NewPublisherWithClient wraps an existing GitHub client
func NewPublisherWithClient(client *github.Client) *Publisher {
	return &Publisher{client: client, now: time.Now}
}

// ParseRepo splits an "owner/name" repository reference.
func ParseRepo(ref string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", ref)
	}
	return owner, repo, nil
}

// Publish opens a pull request that sets opts.Path to content. It returns
// ErrUnchanged without creating anything when the base branch already
// matches.
func (p *Publisher) Publish(ctx context.Context, content []byte, opts Options) (*Result, error) {
	log := klog.FromContext(ctx)

	base := opts.Base
	if base == "" {
		repo, _, err := p.client.Repositories.Get(ctx, opts.Owner, opts.Repo)
		if err != nil {
			return nil, fmt.Errorf("getting repository %s/%s: %w", opts.Owner, opts.Repo, err)
		}
		base = repo.GetDefaultBranch()
	}

	existingSHA, err := p.compareExisting(ctx, content, base, opts)
	if err != nil {
		return nil, err
	}

	branch := fmt.Sprintf("landscape-update-%d", p.now().Unix())
	title := "Update landscape data"
	if opts.DryRun {
		log.Info("dry run, not publishing", "repo", opts.Owner+"/"+opts.Repo, "base", base, "branch", branch, "path", opts.Path, "title", title)
		return &Result{Branch: branch}, nil
	}

	ref, _, err := p.client.Git.GetRef(ctx, opts.Owner, opts.Repo, "heads/"+base)
	if err != nil {
		return nil, fmt.Errorf("getting base branch %s: %w", base, err)
	}

	log.Info("creating branch", "branch", branch, "from", base)
	_, _, err = p.client.Git.CreateRef(ctx, opts.Owner, opts.Repo, &github.Reference{
		Ref:    github.Ptr("refs/heads/" + branch),
		Object: &github.GitObject{SHA: ref.GetObject().SHA},
	})
	if err != nil {
		return nil, fmt.Errorf("creating branch %s: %w", branch, err)
	}

	fileOpts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(title),
		Content: content,
		Branch:  github.Ptr(branch),
	}
	if existingSHA != "" {
		fileOpts.SHA = github.Ptr(existingSHA)
		_, _, err = p.client.Repositories.UpdateFile(ctx, opts.Owner, opts.Repo, opts.Path, fileOpts)
	} else {
		_, _, err = p.client.Repositories.CreateFile(ctx, opts.Owner, opts.Repo, opts.Path, fileOpts)
	}
	if err != nil {
		return nil, fmt.Errorf("committing %s: %w", opts.Path, err)
	}

	pr, _, err := p.client.PullRequests.Create(ctx, opts.Owner, opts.Repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Head:  github.Ptr(branch),
		Base:  github.Ptr(base),
		Body:  github.Ptr("Automated update of the generated landscape data."),
	})
	if err != nil {
		return nil, fmt.Errorf("creating pull request: %w", err)
	}

	log.Info("opened pull request", "url", pr.GetHTMLURL(), "number", pr.GetNumber())
	return &Result{Branch: branch, URL: pr.GetHTMLURL(), Number: pr.GetNumber()}, nil
}

// compareExisting returns the blob SHA of the current file on base, or ""
// when it does not exist yet.
func (p *Publisher) compareExisting(ctx context.Context, content []byte, base string, opts Options) (string, error) {
	file, _, resp, err := p.client.Repositories.GetContents(ctx, opts.Owner, opts.Repo, opts.Path,
		&github.RepositoryContentGetOptions{Ref: base})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("reading %s on %s: %w", opts.Path, base, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s is not a file", opts.Path)
	}

	current, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", opts.Path, err)
	}
	if current == string(content) {
		return "", ErrUnchanged
	}
	return file.GetSHA(), nil
}
