// Package anchor captures text anchors from selections and re-locates them in
// a freshly flattened document, disambiguating repeated quotes by scoring the
// surrounding context.
package anchor

// Params holds the tunable constants of capture and matching.
type Params struct {
	// CaptureContext is how many characters of prefix and suffix are stored.
	CaptureContext int `yaml:"capture_context"`
	// ContextWindow is how many normalized characters either side of a
	// candidate are compared against the stored prefix and suffix.
	ContextWindow int `yaml:"context_window"`
	// FallbackChars is the length of the prefix tail / suffix head accepted
	// as a partial context hit.
	FallbackChars int `yaml:"fallback_chars"`
	ExactWeight   int `yaml:"exact_weight"`
	PartialWeight int `yaml:"partial_weight"`
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		CaptureContext: 30,
		ContextWindow:  80,
		FallbackChars:  10,
		ExactWeight:    3,
		PartialWeight:  1,
	}
}

// WithDefaults fills zero fields from DefaultParams.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.CaptureContext <= 0 {
		p.CaptureContext = d.CaptureContext
	}
	if p.ContextWindow <= 0 {
		p.ContextWindow = d.ContextWindow
	}
	if p.FallbackChars <= 0 {
		p.FallbackChars = d.FallbackChars
	}
	if p.ExactWeight <= 0 {
		p.ExactWeight = d.ExactWeight
	}
	if p.PartialWeight <= 0 {
		p.PartialWeight = d.PartialWeight
	}
	return p
}
