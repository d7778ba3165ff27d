package presenter

import (
	"strings"

	"github.com/k3a/html2text"

	"github.com/sayah-app/sayah-go/internal/api"
)

// ResourceView is one article with its content flattened to plain text.
type ResourceView struct {
	ID    string
	Title string
	Body  string
}

// NewResourceViews converts resources for display.
func NewResourceViews(resources []api.Resource) []ResourceView {
	views := make([]ResourceView, 0, len(resources))
	for _, r := range resources {
		views = append(views, ResourceView{
			ID:    r.ID,
			Title: strings.TrimSpace(html2text.HTML2Text(r.Title)),
			Body:  strings.TrimSpace(html2text.HTML2Text(r.Content)),
		})
	}
	return views
}
