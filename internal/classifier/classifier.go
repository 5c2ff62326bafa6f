package classifier

import (
	"strings"

	"github.com/pbaille/ankigraph/internal/domain"
)

// rule maps a substring marker to the category it selects
type rule struct {
	Marker   string
	Category domain.Category
}

// markers are evaluated in order; the first match wins
var markers = []rule{
	{Marker: "#B&B", Category: domain.CategoryBB},
	{Marker: "#Pathoma", Category: domain.CategoryPathoma},
	{Marker: "#Sketchy", Category: domain.CategorySketchy},
	{Marker: "#FirstAid", Category: domain.CategoryFirstAid},
}

// Classifier assigns exactly one category to a tag
type Classifier struct {
	rules []rule
}

// New creates a Classifier using the standard marker table
func New() *Classifier {
	return &Classifier{rules: markers}
}

// Classify returns the category of tag. Tags without a marker are other.
func (c *Classifier) Classify(tag string) domain.Category {
	for _, r := range c.rules {
		if strings.Contains(tag, r.Marker) {
			return r.Category
		}
	}
	return domain.CategoryOther
}

// Classify uses the standard marker table
func Classify(tag string) domain.Category {
	return defaultClassifier.Classify(tag)
}

var defaultClassifier = New()

// Marker returns the substring that selects c, or "" for other
func Marker(c domain.Category) string {
	for _, r := range markers {
		if r.Category == c {
			return r.Marker
		}
	}
	return ""
}
