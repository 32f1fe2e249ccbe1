package landscape

// Project is a single record as returned by the Eclipse projects API.
type Project struct {
	Name         string       `json:"name" yaml:"name"`
	Summary      string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	HomepageURL  string       `json:"url,omitempty" yaml:"url,omitempty"`
	State        string       `json:"state,omitempty" yaml:"state,omitempty"`
	Category     string       `json:"category,omitempty" yaml:"category,omitempty"`
	Repositories []Repository `json:"github_repos,omitempty" yaml:"github_repos,omitempty"`
	Logo         string       `json:"logo,omitempty" yaml:"logo,omitempty"`
}

type Repository struct {
	URL string `json:"url" yaml:"url"`
}

// Plan is a curated category layout. Items reference projects by name.
type Plan struct {
	Categories []PlanCategory `yaml:"categories"`
}

type PlanCategory struct {
	Name          string            `yaml:"name"`
	Subcategories []PlanSubcategory `yaml:"subcategories"`
}

type PlanSubcategory struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

// Item is a project entry as written to data.yml. Optional fields are left
// out of the document entirely when empty.
type Item struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	HomepageURL string `yaml:"homepage_url,omitempty"`
	Project     string `yaml:"project,omitempty"`
	RepoURL     string `yaml:"repo_url,omitempty"`
	Logo        string `yaml:"logo"`
}

type Subcategory struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items"`
}

type Category struct {
	Name          string        `yaml:"name"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

// Document is the Landscape2 data.yml root.
type Document struct {
	Categories []Category `yaml:"categories"`
}

// Stats summarises the size of a document.
type Stats struct {
	Categories    int
	Subcategories int
	Items         int
}

// Stats counts categories, subcategories and items in the document.
func (d *Document) Stats() Stats {
	var s Stats
	for _, c := range d.Categories {
		s.Categories++
		for _, sc := range c.Subcategories {
			s.Subcategories++
			s.Items += len(sc.Items)
		}
	}
	return s
}
