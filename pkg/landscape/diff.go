package landscape

import (
	"fmt"
	"strings"
)

// Diff describes what changes between an existing landscape document and a
// freshly generated one.
type Diff struct {
	Added      []string   `json:"added,omitempty"`
	Removed    []string   `json:"removed,omitempty"`
	Changed    []ItemDiff `json:"changed,omitempty"`
	HasChanges bool       `json:"has_changes"`
}

// ItemDiff lists the field changes for a single item
type ItemDiff struct {
	Name    string   `json:"name"`
	Changes []Change `json:"changes"`
}

// Change represents a single field change
type Change struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

type placedItem struct {
	item     Item
	location string
}

func indexItems(doc *Document) ([]string, map[string]placedItem) {
	var order []string
	index := make(map[string]placedItem)
	for _, c := range doc.Categories {
		for _, sc := range c.Subcategories {
			for _, it := range sc.Items {
				if _, seen := index[it.Name]; !seen {
					order = append(order, it.Name)
				}
				index[it.Name] = placedItem{item: it, location: c.Name + " / " + sc.Name}
			}
		}
	}
	return order, index
}

// Compare matches items by name and reports added, removed and changed items.
func Compare(current, desired *Document) Diff {
	var diff Diff

	currentOrder, currentItems := indexItems(current)
	desiredOrder, desiredItems := indexItems(desired)

	for _, name := range desiredOrder {
		want := desiredItems[name]
		have, ok := currentItems[name]
		if !ok {
			diff.Added = append(diff.Added, name)
			continue
		}
		changes := CompareItems(have.item, want.item)
		if have.location != want.location {
			changes = append(changes, Change{"location", have.location, want.location})
		}
		if len(changes) > 0 {
			diff.Changed = append(diff.Changed, ItemDiff{Name: name, Changes: changes})
		}
	}

	for _, name := range currentOrder {
		if _, ok := desiredItems[name]; !ok {
			diff.Removed = append(diff.Removed, name)
		}
	}

	diff.HasChanges = len(diff.Added) > 0 || len(diff.Removed) > 0 || len(diff.Changed) > 0
	return diff
}

// CompareItems returns the fields that differ between two items
func CompareItems(current, desired Item) []Change {
	var changes []Change
	if current.Description != desired.Description {
		changes = append(changes, Change{"description", current.Description, desired.Description})
	}
	if current.HomepageURL != desired.HomepageURL {
		changes = append(changes, Change{"homepage_url", current.HomepageURL, desired.HomepageURL})
	}
	if current.Project != desired.Project {
		changes = append(changes, Change{"project", current.Project, desired.Project})
	}
	if current.RepoURL != desired.RepoURL {
		changes = append(changes, Change{"repo_url", current.RepoURL, desired.RepoURL})
	}
	if current.Logo != desired.Logo {
		changes = append(changes, Change{"logo", current.Logo, desired.Logo})
	}
	return changes
}

// FormatDiff formats a diff as human-readable text
func FormatDiff(diff Diff) string {
	if !diff.HasChanges {
		return "Landscape is up to date.\n"
	}

	var b strings.Builder
	for _, name := range diff.Added {
		b.WriteString(fmt.Sprintf("+ %s\n", name))
	}
	for _, name := range diff.Removed {
		b.WriteString(fmt.Sprintf("- %s\n", name))
	}
	for _, d := range diff.Changed {
		b.WriteString(fmt.Sprintf("~ %s\n", d.Name))
		for _, change := range d.Changes {
			b.WriteString(fmt.Sprintf("    %s: %q -> %q\n", change.Field, change.OldValue, change.NewValue))
		}
	}
	b.WriteString(fmt.Sprintf("\n%d added, %d removed, %d changed\n", len(diff.Added), len(diff.Removed), len(diff.Changed)))
	return b.String()
}
