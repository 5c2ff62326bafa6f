package graph

import (
	"github.com/pbaille/ankigraph/internal/domain"
)

// Registry assigns dense identifiers to tags in first-seen order
type Registry struct {
	ids  map[string]int
	tags []string
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]int)}
}

// Register returns the identifier of tag, allocating the next one if the
// tag is new. created reports whether an allocation happened.
func (r *Registry) Register(tag string) (id int, created bool) {
	if id, ok := r.ids[tag]; ok {
		return id, false
	}
	id = len(r.tags)
	r.ids[tag] = id
	r.tags = append(r.tags, tag)
	return id, true
}

// LookupID returns the identifier of a registered tag
func (r *Registry) LookupID(tag string) (int, error) {
	id, ok := r.ids[tag]
	if !ok {
		return 0, &UnknownTagError{Tag: tag}
	}
	return id, nil
}

// LookupTag returns the tag behind an identifier
func (r *Registry) LookupTag(id int) (string, error) {
	if id < 0 || id >= len(r.tags) {
		return "", &UnknownIdentifierError{ID: id}
	}
	return r.tags[id], nil
}

// Len returns the number of registered tags
func (r *Registry) Len() int {
	return len(r.tags)
}

// Rows returns the tag dictionary in discovery order
func (r *Registry) Rows() []domain.TagRow {
	rows := make([]domain.TagRow, len(r.tags))
	for id, tag := range r.tags {
		rows[id] = domain.TagRow{Tag: tag, ID: id}
	}
	return rows
}
