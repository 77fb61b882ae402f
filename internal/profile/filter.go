package profile

import "github.com/paulmach/osm"

// FilterConfig restricts entities by their tags
type FilterConfig struct {
	// Include lists tag keys/values of which at least one must match.
	// An empty value list accepts any value for that key.
	Include map[string][]string `yaml:"include,omitempty"`
	// Exclude rejects entities with any of these keys/values
	Exclude map[string][]string `yaml:"exclude,omitempty"`
	// RequireAny lists keys of which at least one must be present
	RequireAny []string `yaml:"require_any,omitempty"`
}

// Filter applies a FilterConfig
type Filter struct {
	cfg *FilterConfig
}

// NewFilter creates a filter; a nil config accepts everything
func NewFilter(cfg *FilterConfig) *Filter {
	if cfg == nil {
		cfg = &FilterConfig{}
	}
	return &Filter{cfg: cfg}
}

// Match reports whether an entity with these tags passes the filter
func (f *Filter) Match(tags osm.Tags) bool {
	if len(f.cfg.RequireAny) > 0 {
		found := false
		for _, key := range f.cfg.RequireAny {
			if tags.HasTag(key) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.cfg.Include) > 0 && !matchAny(tags, f.cfg.Include) {
		return false
	}

	if len(f.cfg.Exclude) > 0 && matchAny(tags, f.cfg.Exclude) {
		return false
	}

	return true
}

// HasFilter returns true if any rule is configured
func (f *Filter) HasFilter() bool {
	return len(f.cfg.Include) > 0 || len(f.cfg.Exclude) > 0 || len(f.cfg.RequireAny) > 0
}

func matchAny(tags osm.Tags, rules map[string][]string) bool {
	for key, values := range rules {
		tag := tags.FindTag(key)
		if tag == nil {
			continue
		}
		if len(values) == 0 {
			return true
		}
		for _, v := range values {
			if v == tag.Value || v == "*" {
				return true
			}
		}
	}
	return false
}
