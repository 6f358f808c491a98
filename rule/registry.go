package rule

import "log/slog"

// Duplicate records a rejected registration of an already registered key.
type Duplicate struct {
	Key      string `json:"key"`
	FirstSet string `json:"first_set"`
	Set      string `json:"set"`
}

// Registry keeps rules unique by key across one run.
// The first registration of a key wins; later ones are recorded as duplicates.
type Registry struct {
	sets       []*Set
	bySet      map[string]*Set
	owner      map[string]string
	duplicates []Duplicate
	logger     *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		bySet:  make(map[string]*Set),
		owner:  make(map[string]string),
		logger: logger,
	}
}

// Register adds the rule built for key to set. The duplicate check runs
// before build, so a rejected key is never built. It reports whether the
// rule was added.
func (r *Registry) Register(set, key string, build func() (*Model, error)) (bool, error) {
	if first, ok := r.owner[key]; ok {
		r.duplicates = append(r.duplicates, Duplicate{Key: key, FirstSet: first, Set: set})
		r.logger.Warn("Duplicate rule key, keeping first registration",
			"key", key, "first_set", first, "set", set)
		return false, nil
	}

	m, err := build()
	if err != nil {
		return false, err
	}
	r.owner[key] = set

	s := r.Declare(set)
	s.Rules = append(s.Rules, m)
	return true, nil
}

// Declare returns the named set, creating it empty when first seen.
func (r *Registry) Declare(name string) *Set {
	s, ok := r.bySet[name]
	if !ok {
		s = &Set{Name: name}
		r.bySet[name] = s
		r.sets = append(r.sets, s)
	}
	return s
}

// Sets returns the rule sets in first-seen order.
func (r *Registry) Sets() []*Set {
	return r.sets
}

// Duplicates returns the rejected registrations.
func (r *Registry) Duplicates() []Duplicate {
	return r.duplicates
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.owner)
}
