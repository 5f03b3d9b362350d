package profile

import (
	"fmt"
	"sort"

	"github.com/tsawler/ledgerscan/internal/textnorm"
)

// Registry holds the profiles known to a process. It is read-only after
// loading and safe for concurrent use.
type Registry struct {
	byName map[string]*Profile
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Profile)}
}

// Add validates p and registers it under its name.
func (r *Registry) Add(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, dup := r.byName[p.Name]; dup {
		return fmt.Errorf("profile %q registered twice", p.Name)
	}
	r.byName[p.Name] = p
	r.order = append(r.order, p.Name)
	return nil
}

// Get returns the named profile.
func (r *Registry) Get(name string) (*Profile, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("profile %q: %w", name, ErrNoProfile)
	}
	return p, nil
}

// Names returns the registered profile names, sorted.
func (r *Registry) Names() []string {
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int {
	return len(r.order)
}

// Detect picks the profile whose keywords occur most often in text, which
// is normally the first page of the document. Matching ignores case and
// accents. Ties go to the profile registered first.
func (r *Registry) Detect(text string) (*Profile, error) {
	folded := textnorm.Fold(text)

	var best *Profile
	bestScore := 0
	for _, name := range r.order {
		p := r.byName[name]
		score := 0
		for _, kw := range p.Keywords {
			if kw != "" && textnorm.Contains(folded, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = p, score
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no profile keywords found: %w", ErrNoProfile)
	}
	return best, nil
}
