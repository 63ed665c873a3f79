package masking

import "regexp"

// MaskedSecretValue is the replacement string for a masked AWS secret
// access key found alongside an access key ID.
const MaskedSecretValue = "[MASKED_AWS_SECRET_KEY]"

var (
	accessKeyIDPattern = regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`)
	secretKeyPattern   = regexp.MustCompile(`\b[A-Za-z0-9/+=]{40}\b`)
)

// AWSKeyPairMasker looks for an AWS secret access key (a bare 40-character
// base64-ish token) occurring near an access key ID, and masks only that
// paired secret — a plain regex on 40-char tokens alone would over-mask
// ordinary base64 content that has nothing to do with credentials.
type AWSKeyPairMasker struct{}

func (m *AWSKeyPairMasker) Name() string { return "aws_key_pair" }

// AppliesTo is a fast pre-check: only bother scanning for a paired secret
// if an access key ID is present at all.
func (m *AWSKeyPairMasker) AppliesTo(data string) bool {
	return accessKeyIDPattern.MatchString(data)
}

// Mask replaces any bare 40-character token within 200 bytes of a matched
// access key ID. Defensive: returns the original string on any surprise.
func (m *AWSKeyPairMasker) Mask(data string) string {
	idMatches := accessKeyIDPattern.FindAllStringIndex(data, -1)
	if len(idMatches) == 0 {
		return data
	}

	const window = 200
	masked := data
	for _, loc := range idMatches {
		start := loc[1]
		end := start + window
		if end > len(masked) {
			end = len(masked)
		}
		nearby := masked[start:end]
		masked = masked[:start] + secretKeyPattern.ReplaceAllString(nearby, MaskedSecretValue) + masked[end:]
	}
	return masked
}
