package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/v71/github"
)

// fakeGitHub serves the handful of GitHub API endpoints the publisher uses.
type fakeGitHub struct {
	mu       sync.Mutex
	calls    []string
	existing *string
	putBody  map[string]interface{}
	refBody  map[string]interface{}
	pullBody map[string]interface{}
}

func (f *fakeGitHub) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decoding request body: %v", err)
	}
	return body
}

func newFakeGitHub(t *testing.T, f *fakeGitHub) *Publisher {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/eclipse-sdv/landscape", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		fmt.Fprint(w, `{"name":"landscape","default_branch":"main"}`)
	})
	mux.HandleFunc("GET /repos/eclipse-sdv/landscape/contents/data.yml", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.existing == nil {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"type":     "file",
			"encoding": "base64",
			"name":     "data.yml",
			"path":     "data.yml",
			"sha":      "blob-sha",
			"content":  base64.StdEncoding.EncodeToString([]byte(*f.existing)),
		})
	})
	mux.HandleFunc("GET /repos/eclipse-sdv/landscape/git/ref/heads/{branch}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		fmt.Fprintf(w, `{"ref":"refs/heads/%s","object":{"type":"commit","sha":"base-sha"}}`, r.PathValue("branch"))
	})
	mux.HandleFunc("POST /repos/eclipse-sdv/landscape/git/refs", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.refBody = decodeBody(t, r)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"ref":"refs/heads/new","object":{"sha":"base-sha"}}`)
	})
	mux.HandleFunc("PUT /repos/eclipse-sdv/landscape/contents/data.yml", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.putBody = decodeBody(t, r)
		fmt.Fprint(w, `{"content":{"name":"data.yml"},"commit":{"sha":"commit-sha"}}`)
	})
	mux.HandleFunc("POST /repos/eclipse-sdv/landscape/pulls", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.pullBody = decodeBody(t, r)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number":42,"html_url":"https://github.com/eclipse-sdv/landscape/pull/42"}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	client.BaseURL = baseURL

	p := NewPublisherWithClient(client)
	p.now = func() time.Time { return time.Unix(1700000000, 0) }
	return p
}

var testOptions = Options{Owner: "eclipse-sdv", Repo: "landscape", Path: "data.yml"}

func TestPublishUpdatesExistingFile(t *testing.T) {
	old := "categories: []\n"
	f := &fakeGitHub{existing: &old}
	p := newFakeGitHub(t, f)

	content := []byte("categories:\n  - name: Core\n")
	result, err := p.Publish(context.Background(), content, testOptions)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	wantCalls := []string{
		"GET /repos/eclipse-sdv/landscape",
		"GET /repos/eclipse-sdv/landscape/contents/data.yml",
		"GET /repos/eclipse-sdv/landscape/git/ref/heads/main",
		"POST /repos/eclipse-sdv/landscape/git/refs",
		"PUT /repos/eclipse-sdv/landscape/contents/data.yml",
		"POST /repos/eclipse-sdv/landscape/pulls",
	}
	if diff := cmp.Diff(wantCalls, f.calls); diff != "" {
		t.Errorf("API calls mismatch (-want +got):\n%s", diff)
	}

	if result.Number != 42 || result.URL != "https://github.com/eclipse-sdv/landscape/pull/42" {
		t.Errorf("unexpected result %+v", result)
	}
	if result.Branch != "landscape-update-1700000000" {
		t.Errorf("unexpected branch %q", result.Branch)
	}

	if f.refBody["ref"] != "refs/heads/landscape-update-1700000000" || f.refBody["sha"] != "base-sha" {
		t.Errorf("unexpected ref request %v", f.refBody)
	}
	if f.putBody["sha"] != "blob-sha" {
		t.Errorf("expected update of blob-sha, got %v", f.putBody["sha"])
	}
	if f.putBody["branch"] != "landscape-update-1700000000" {
		t.Errorf("expected commit on new branch, got %v", f.putBody["branch"])
	}
	if f.putBody["content"] != base64.StdEncoding.EncodeToString(content) {
		t.Errorf("unexpected content %v", f.putBody["content"])
	}
	if f.pullBody["base"] != "main" || f.pullBody["head"] != "landscape-update-1700000000" {
		t.Errorf("unexpected pull request %v", f.pullBody)
	}
}

func TestPublishCreatesMissingFile(t *testing.T) {
	f := &fakeGitHub{}
	p := newFakeGitHub(t, f)

	opts := testOptions
	opts.Base = "develop"
	if _, err := p.Publish(context.Background(), []byte("categories: []\n"), opts); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// An explicit base branch skips the repository lookup.
	if f.calls[0] != "GET /repos/eclipse-sdv/landscape/contents/data.yml" {
		t.Errorf("unexpected first call %q", f.calls[0])
	}
	if f.calls[1] != "GET /repos/eclipse-sdv/landscape/git/ref/heads/develop" {
		t.Errorf("unexpected ref lookup %q", f.calls[1])
	}
	if _, ok := f.putBody["sha"]; ok {
		t.Errorf("expected no sha when creating a file, got %v", f.putBody["sha"])
	}
	if f.pullBody["base"] != "develop" {
		t.Errorf("expected PR against develop, got %v", f.pullBody["base"])
	}
}

func TestPublishUnchanged(t *testing.T) {
	content := "categories: []\n"
	f := &fakeGitHub{existing: &content}
	p := newFakeGitHub(t, f)

	_, err := p.Publish(context.Background(), []byte(content), testOptions)
	if !errors.Is(err, ErrUnchanged) {
		t.Fatalf("expected ErrUnchanged, got %v", err)
	}
	if len(f.calls) != 2 {
		t.Errorf("expected only read calls, got %v", f.calls)
	}
}

func TestPublishDryRun(t *testing.T) {
	f := &fakeGitHub{}
	p := newFakeGitHub(t, f)

	opts := testOptions
	opts.DryRun = true
	result, err := p.Publish(context.Background(), []byte("categories: []\n"), opts)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if result.Branch == "" {
		t.Error("expected planned branch name")
	}
	for _, call := range f.calls {
		if call[:3] != "GET" {
			t.Errorf("expected no write calls in dry run, got %q", call)
		}
	}
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		ref       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"eclipse-sdv/landscape", "eclipse-sdv", "landscape", false},
		{" owner/repo ", "owner", "repo", false},
		{"owner", "", "", true},
		{"owner/", "", "", true},
		{"/repo", "", "", true},
		{"a/b/c", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			owner, repo, err := ParseRepo(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepo(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRepo(%q) = (%q, %q), want (%q, %q)", tt.ref, owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}
