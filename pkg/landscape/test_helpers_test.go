package landscape

import (
	"context"

	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/logos"
)

// stubResolver records the logo URLs it is asked about and never touches
// the network.
type stubResolver struct {
	calls []string
}

func (r *stubResolver) Resolve(_ context.Context, logoURL string) string {
	r.calls = append(r.calls, logoURL)
	if logoURL == "" {
		return logos.Placeholder
	}
	return "local-" + logoURL
}

func project(name, category string) Project {
	return Project{Name: name, Category: category}
}

// layout flattens a document into (category, subcategory, item) triples.
func layout(doc *Document) [][3]string {
	var out [][3]string
	for _, c := range doc.Categories {
		for _, sc := range c.Subcategories {
			for _, it := range sc.Items {
				out = append(out, [3]string{c.Name, sc.Name, it.Name})
			}
		}
	}
	return out
}

func categoryNames(doc *Document) []string {
	var names []string
	for _, c := range doc.Categories {
		names = append(names, c.Name)
	}
	return names
}
