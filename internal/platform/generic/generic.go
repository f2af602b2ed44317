// Package generic infers questions on arbitrary pages by clustering form
// widgets. It accepts every URL and belongs last in the registry.
package generic

import (
	"strings"

	"golang.org/x/net/html"

	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
)

// Name identifies the adapter.
const Name = "generic"

// URLPatterns accept every page.
var URLPatterns = []string{platform.AllURLs}

// Profile has no container selectors, so containers come from widget
// clustering. Search and sign-in forms are not questions.
var Profile = platform.Profile{
	Name:           Name,
	URLPatterns:    URLPatterns,
	TitleSelectors: []string{"main h1", "h1"},
	PollURL:        true,
	Exclude:        utilityForm,
}

// Adapter is the fallback variant.
type Adapter struct {
	*platform.Host
}

// New returns a generic adapter.
func New(opts platform.Options) *Adapter {
	return &Adapter{Host: platform.MustHost(Profile, opts)}
}

const utilityFormSelector = `form[role=search], form[action*=search], form[action*=login], [role=search]`

func utilityForm(container *html.Node) bool {
	if dom.Closest(container, utilityFormSelector) != nil {
		return true
	}
	if dom.Query(container, "input[type=password]") != nil {
		return true
	}
	for _, widget := range dom.Widgets(container) {
		if strings.EqualFold(dom.Attr(widget, "type"), "search") {
			return true
		}
	}
	return false
}
