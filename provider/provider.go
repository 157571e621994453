// Package provider manages the registry of built-in stream providers.
package provider

import (
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"

	"github.com/livesan-cli/livesan/provider/showroom"
	"github.com/livesan-cli/livesan/source"
)

// Provider represents a source provider.
type Provider struct {
	ID           string
	Name         string
	CreateSource func() (source.Source, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns built-in providers.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:   showroom.ID,
			Name: showroom.Name,
			CreateSource: func() (source.Source, error) {
				return showroom.New(), nil
			},
		},
	}
}

// Get finds a provider by name or canonical id.
func Get(name string) (*Provider, bool) {
	for _, p := range Builtins() {
		if p.Name == name || p.ID == name {
			return p, true
		}
	}
	return nil, false
}

// Closest returns the registered provider nearest to the given name, for
// "did you mean" hints on failed lookups.
func Closest(name string) *Provider {
	return lo.MinBy(Builtins(), func(a, b *Provider) bool {
		return levenshtein.Distance(name, a.ID) < levenshtein.Distance(name, b.ID)
	})
}
