package landscape

import (
	"context"
	"strings"

	"k8s.io/klog/v2"
)

const (
	UnmappedCategory  = "Unmapped"
	MiscSubcategory   = "Misc"
	UnknownCategory   = "Unknown"
	categorySeparator = "/"
)

// Build groups projects into a landscape document. A non-nil plan selects
// static mode; otherwise categories are derived from each project's
// category field.
func Build(ctx context.Context, projects []Project, plan *Plan, resolver LogoResolver) *Document {
	if plan != nil {
		return BuildStatic(ctx, projects, plan, resolver)
	}
	return BuildDynamic(ctx, projects, resolver)
}

// BuildStatic lays projects out according to plan. Projects are matched by
// name; when names repeat the last project wins. Plan entries without a
// matching project are skipped. Projects the plan never mentions end up in a
// trailing Unmapped/Misc category, in load order.
func BuildStatic(ctx context.Context, projects []Project, plan *Plan, resolver LogoResolver) *Document {
	log := klog.FromContext(ctx)

	byName := make(map[string]Project, len(projects))
	for _, p := range projects {
		byName[p.Name] = p
	}
	assigned := make(map[string]bool)

	doc := &Document{Categories: make([]Category, 0, len(plan.Categories)+1)}
	for _, pc := range plan.Categories {
		cat := Category{Name: pc.Name, Subcategories: make([]Subcategory, 0, len(pc.Subcategories))}
		for _, ps := range pc.Subcategories {
			sub := Subcategory{Name: ps.Name, Items: []Item{}}
			for _, name := range ps.Items {
				project, ok := byName[name]
				if !ok {
					log.V(1).Info("plan references unknown project", "project", name, "category", pc.Name, "subcategory", ps.Name)
					continue
				}
				sub.Items = append(sub.Items, NewItem(ctx, project, resolver))
				assigned[name] = true
			}
			cat.Subcategories = append(cat.Subcategories, sub)
		}
		doc.Categories = append(doc.Categories, cat)
	}

	// One entry per distinct name, positioned where the name first appears.
	var unmapped []Item
	for _, p := range projects {
		if assigned[p.Name] {
			continue
		}
		assigned[p.Name] = true
		unmapped = append(unmapped, NewItem(ctx, byName[p.Name], resolver))
	}

	if len(unmapped) > 0 {
		log.V(1).Info("projects not covered by plan", "count", len(unmapped))
		doc.Categories = append(doc.Categories, Category{
			Name: UnmappedCategory,
			Subcategories: []Subcategory{
				{Name: MiscSubcategory, Items: unmapped},
			},
		})
	}

	return doc
}

// BuildDynamic derives the layout from each project's category field.
// Categories and subcategories appear in the order they are first seen.
func BuildDynamic(ctx context.Context, projects []Project, resolver LogoResolver) *Document {
	doc := &Document{}
	catIndex := make(map[string]int)
	subIndex := make(map[string]map[string]int)

	for _, p := range projects {
		catName, subName := SplitCategory(p.Category)

		ci, ok := catIndex[catName]
		if !ok {
			ci = len(doc.Categories)
			catIndex[catName] = ci
			subIndex[catName] = make(map[string]int)
			doc.Categories = append(doc.Categories, Category{Name: catName})
		}
		cat := &doc.Categories[ci]

		si, ok := subIndex[catName][subName]
		if !ok {
			si = len(cat.Subcategories)
			subIndex[catName][subName] = si
			cat.Subcategories = append(cat.Subcategories, Subcategory{Name: subName})
		}

		cat.Subcategories[si].Items = append(cat.Subcategories[si].Items, NewItem(ctx, p, resolver))
	}

	if doc.Categories == nil {
		doc.Categories = []Category{}
	}
	return doc
}

// SplitCategory splits a "Category / Subcategory" label on its first
// separator. A blank field maps to Unknown, and a missing or blank
// subcategory maps to Misc.
func SplitCategory(field string) (category, subcategory string) {
	if strings.TrimSpace(field) == "" {
		return UnknownCategory, MiscSubcategory
	}

	category, subcategory, found := strings.Cut(field, categorySeparator)
	category = strings.TrimSpace(category)
	subcategory = strings.TrimSpace(subcategory)
	if category == "" {
		category = UnknownCategory
	}
	if !found || subcategory == "" {
		subcategory = MiscSubcategory
	}
	return category, subcategory
}
