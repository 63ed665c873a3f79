// Package masking redacts credential-shaped strings (API keys, JWTs, AWS
// access keys) that end up pasted into scraped post content before that
// content is ever sent to an LLM or persisted. Repurposed from tarsy's
// Kubernetes-secret redaction service; the compiled-regex +
// code-masker-registry architecture is unchanged, only the patterns and
// the one structural masker differ.
package masking

// Masker is a code-based masker needing structural awareness beyond a
// single regex (e.g. correlating an AWS access key ID with the secret key
// that follows it). Code-based maskers run before the regex sweep.
type Masker interface {
	// Name returns the unique identifier for this masker.
	Name() string

	// AppliesTo performs a lightweight check on whether this masker
	// should process the data. Should be fast (string contains, not parsing).
	AppliesTo(data string) bool

	// Mask applies masking logic and returns the masked result.
	// Must be defensive: return original data on parse/processing errors.
	Mask(data string) string
}
