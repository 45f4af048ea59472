package validator

import "veridoc/internal/validator/passport"

// Registry maps rule keys to Validator implementations.
type Registry struct {
	validators map[string]Validator
	order      []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]Validator)}
}

// NewPassportRegistry creates a Registry populated with all built-in passport rules.
func NewPassportRegistry() *Registry {
	r := NewRegistry()
	for _, v := range passport.RequiredFieldValidators() {
		r.Register(v)
	}
	for _, v := range passport.FormatValidators() {
		r.Register(v)
	}
	for _, v := range passport.DateValidators() {
		r.Register(v)
	}
	r.Register(passport.MRZValidator())
	r.Register(passport.ScoreRangeValidator())
	r.Register(passport.LowConfidenceValidator())
	return r
}

// Register adds a validator to the registry. Rules run in registration order
// so remarks come out deterministically.
func (r *Registry) Register(v Validator) {
	if _, exists := r.validators[v.RuleKey()]; !exists {
		r.order = append(r.order, v.RuleKey())
	}
	r.validators[v.RuleKey()] = v
}

// Get returns the validator for a given rule key, or nil if not found.
func (r *Registry) Get(key string) Validator {
	return r.validators[key]
}

// All returns all registered validators in registration order.
func (r *Registry) All() []Validator {
	out := make([]Validator, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.validators[key])
	}
	return out
}
