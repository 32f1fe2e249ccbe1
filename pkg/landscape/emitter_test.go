package landscape

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"
)

func TestMarshalOmitsMissingFields(t *testing.T) {
	doc := BuildDynamic(context.Background(), []Project{
		{Name: "bare", Category: "Infra / Net"},
	}, nil)

	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string][]map[string]interface{}
	if err := yaml.Unmarshal(out, &raw); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, out)
	}
	subs := raw["categories"][0]["subcategories"].([]interface{})
	items := subs[0].(map[string]interface{})["items"].([]interface{})
	item := items[0].(map[string]interface{})

	for _, key := range []string{"homepage_url", "description", "project", "repo_url"} {
		if _, ok := item[key]; ok {
			t.Errorf("expected %s to be omitted, got %v", key, item[key])
		}
	}
	if item["logo"] != "placeholder.svg" {
		t.Errorf("expected placeholder logo, got %v", item["logo"])
	}
}

func TestMarshalKeyOrder(t *testing.T) {
	doc := &Document{Categories: []Category{{
		Name: "Infra",
		Subcategories: []Subcategory{{
			Name: "Net",
			Items: []Item{{
				Name:        "A",
				Description: "desc",
				HomepageURL: "https://a.example",
				Project:     "Incubating",
				RepoURL:     "https://github.com/a/a",
				Logo:        "a.svg",
			}},
		}},
	}}}

	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	text := string(out)

	if !strings.HasPrefix(text, "categories:\n") {
		t.Errorf("expected document to start with categories key, got:\n%s", text)
	}
	order := []string{"name: Infra", "subcategories:", "name: Net", "items:", "name: A", "description: desc",
		"homepage_url: https://a.example", "project: Incubating", "repo_url: https://github.com/a/a", "logo: a.svg"}
	last := -1
	for _, want := range order {
		idx := strings.Index(text, want)
		if idx < 0 {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
		if idx < last {
			t.Errorf("expected %q after previous keys in output:\n%s", want, text)
		}
		last = idx
	}
}

func TestWriteFileAndReadFile(t *testing.T) {
	doc := BuildStatic(context.Background(), []Project{
		{Name: "A", Summary: "a", Repositories: []Repository{{URL: "https://github.com/a/a"}}},
		{Name: "B", State: "Mature"},
	}, &Plan{Categories: []PlanCategory{
		{Name: "Core", Subcategories: []PlanSubcategory{{Name: "Runtime", Items: []string{"A"}}}},
	}}, nil)

	path := filepath.Join(t.TempDir(), "out", "data.yml")
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if diff := cmp.Diff(doc, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFileError(t *testing.T) {
	dir := t.TempDir()
	// A regular file where a directory is expected.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := WriteFile(filepath.Join(blocker, "data.yml"), &Document{})
	if !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestReadFileErrors(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yml")); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}

	path := writeFile(t, "bad.yml", "categories: {name: [")
	if _, err := ReadFile(path); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}
