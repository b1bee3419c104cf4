// Package places maps human-readable campus place names to coordinates.
package places

import (
	"errors"
	"fmt"
	"strings"

	"campus_router/pkg/geo"
)

var (
	// ErrInvalidRegistry is wrapped by every construction failure.
	ErrInvalidRegistry = errors.New("invalid place registry")

	ErrEmptyName      = errors.New("empty place name")
	ErrDuplicatePlace = errors.New("duplicate place name")

	// ErrUnknownPlace is returned when a name is not registered.
	ErrUnknownPlace = errors.New("place not found")
)

// Place is a named destination.
type Place struct {
	Name string
	Pos  geo.Point
}

// Registry is an ordered, read-only set of places. It is safe for
// concurrent use.
type Registry struct {
	places []Place
	byName map[string]int
	lower  []string // lowercase names, parallel to places
}

// New creates a Registry. Iteration order is the order of places.
func New(places []Place) (*Registry, error) {
	r := &Registry{
		places: make([]Place, 0, len(places)),
		byName: make(map[string]int, len(places)),
		lower:  make([]string, 0, len(places)),
	}
	for i, p := range places {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: %w at position %d", ErrInvalidRegistry, ErrEmptyName, i)
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: %w %q", ErrInvalidRegistry, ErrDuplicatePlace, p.Name)
		}
		r.byName[p.Name] = len(r.places)
		r.places = append(r.places, p)
		r.lower = append(r.lower, strings.ToLower(p.Name))
	}
	return r, nil
}

// Resolve returns the coordinate registered under the exact name.
func (r *Registry) Resolve(name string) (geo.Point, error) {
	i, ok := r.byName[name]
	if !ok {
		return geo.Point{}, fmt.Errorf("%w: %q", ErrUnknownPlace, name)
	}
	return r.places[i].Pos, nil
}

// Suggest returns every name whose lowercase form contains the lowercase
// fragment, in registry order. An empty fragment suggests nothing.
func (r *Registry) Suggest(fragment string) []string {
	out := []string{}
	if fragment == "" {
		return out
	}
	q := strings.ToLower(fragment)
	for i, name := range r.lower {
		if strings.Contains(name, q) {
			out = append(out, r.places[i].Name)
		}
	}
	return out
}

// Places returns all places in registry order.
func (r *Registry) Places() []Place {
	out := make([]Place, len(r.places))
	copy(out, r.places)
	return out
}

// Len returns the number of registered places.
func (r *Registry) Len() int { return len(r.places) }
