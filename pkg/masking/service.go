package masking

// Service sweeps text through registered code-based maskers first, then
// every built-in regex pattern, in a fixed order so one secret shape never
// half-masks another (e.g. an access key ID must survive long enough for
// AWSKeyPairMasker to find its paired secret before the regex pass runs).
type Service struct {
	maskers  []Masker
	patterns []*CompiledPattern
}

// NewService builds a Service with the default code-based maskers and the
// built-in regex pattern set.
func NewService() *Service {
	return &Service{
		maskers:  []Masker{&AWSKeyPairMasker{}},
		patterns: builtinPatterns(),
	}
}

// Redact returns data with every recognized credential shape replaced by
// its mask token. Safe to call on arbitrary scraped text; never errors.
func (s *Service) Redact(data string) string {
	if data == "" {
		return data
	}

	out := data
	for _, m := range s.maskers {
		if m.AppliesTo(out) {
			out = m.Mask(out)
		}
	}

	for _, p := range s.patterns {
		out = p.Regex.ReplaceAllString(out, p.Replacement)
	}

	return out
}
