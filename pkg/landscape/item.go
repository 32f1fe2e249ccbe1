package landscape

import (
	"context"

	"github.com/chheis/eclipse-sdv-projects-landscape2/pkg/logos"
)

// LogoResolver turns a project's logo reference into the value written to
// the item's logo field. It must never fail.
type LogoResolver interface {
	Resolve(ctx context.Context, logoURL string) string
}

// NewItem converts a Project into a landscape Item
func NewItem(ctx context.Context, project Project, resolver LogoResolver) Item {
	if resolver == nil {
		resolver = &logos.Resolver{}
	}

	item := Item{
		Name:        project.Name,
		Description: project.Summary,
		HomepageURL: project.HomepageURL,
		Project:     project.State,
	}

	// Only the first repository is used as repo_url
	if len(project.Repositories) > 0 {
		item.RepoURL = project.Repositories[0].URL
	}

	item.Logo = resolver.Resolve(ctx, project.Logo)
	return item
}
