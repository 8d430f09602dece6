package leadmagnet

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultBrandKey is the fallback entry of DefaultRegistry.
const DefaultBrandKey = "getanswers"

// Registry is an immutable brand table. Build it once with NewRegistry and
// inject it with WithRegistry.
type Registry struct {
	brands     map[string]Brand
	defaultKey string
}

// NewRegistry validates every brand and returns a registry whose fallback is
// brands[defaultKey]. The map is copied.
func NewRegistry(defaultKey string, brands map[string]Brand) (*Registry, error) {
	if len(brands) == 0 {
		return nil, fmt.Errorf("%w: registry is empty", ErrInvalidBrand)
	}
	if _, ok := brands[defaultKey]; !ok {
		return nil, fmt.Errorf("%w: default key %q not in registry", ErrUnknownBrand, defaultKey)
	}
	for key, b := range brands {
		if key == "" {
			return nil, fmt.Errorf("%w: empty registry key", ErrInvalidBrand)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("brand %q: %w", key, err)
		}
	}
	return &Registry{brands: maps.Clone(brands), defaultKey: defaultKey}, nil
}

// DefaultRegistry returns the built-in brands with getanswers as fallback.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultBrandKey, builtinBrands())
	if err != nil {
		panic("leadmagnet: invalid built-in brands: " + err.Error())
	}
	return r
}

func builtinBrands() map[string]Brand {
	return map[string]Brand{
		"getanswers": {
			Name:     "GetAnswers",
			Tagline:  "AI-powered answers for every customer question.",
			Domain:   "getanswers.co",
			Colors:   Colors{Primary: "#1e3a8a", Secondary: "#2563eb", Accent: "#f59e0b"},
			Category: "Customer Support",
		},
		"helpdeskpro": {
			Name:     "HelpdeskPro",
			Tagline:  "The support desk your team will actually enjoy.",
			Domain:   "helpdeskpro.io",
			Colors:   Colors{Primary: "#064e3b", Secondary: "#059669", Accent: "#fbbf24"},
			Category: "Help Desk",
			CTAPath:  "/signup",
		},
		"knowledgehub": {
			Name:     "KnowledgeHub",
			Tagline:  "Documentation that answers before anyone asks.",
			Domain:   "knowledgehub.app",
			Colors:   Colors{Primary: "#4c1d95", Secondary: "#7c3aed", Accent: "#f472b6"},
			Category: "Knowledge Management",
		},
	}
}

// Resolve returns the brand for ref. Literals are validated and returned as
// copies. A zero ref selects the default brand. Unknown keys fall back to
// the default brand, or fail with ErrUnknownBrand when strict is set.
func (r *Registry) Resolve(ref BrandRef, strict bool) (Brand, error) {
	if ref.literal != nil {
		b := *ref.literal
		if err := b.Validate(); err != nil {
			return Brand{}, err
		}
		return b, nil
	}
	if ref.key == "" {
		return r.Default(), nil
	}
	if b, ok := r.brands[ref.key]; ok {
		return b, nil
	}
	if strict {
		return Brand{}, fmt.Errorf("%w: %q", ErrUnknownBrand, ref.key)
	}
	return r.Default(), nil
}

// Lookup returns the brand registered under key.
func (r *Registry) Lookup(key string) (Brand, bool) {
	b, ok := r.brands[key]
	return b, ok
}

// Default returns the fallback brand.
func (r *Registry) Default() Brand {
	return r.brands[r.defaultKey]
}

// DefaultKey returns the key of the fallback brand.
func (r *Registry) DefaultKey() string {
	return r.defaultKey
}

// Keys returns the registry keys in sorted order.
func (r *Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r.brands))
}
