package masking

import "regexp"

// CompiledPattern holds a pre-compiled regex pattern with its replacement.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
	Description string
}

// builtinPatterns is the fixed set of credential-shaped regexes scraped
// post content is swept for. Unlike tarsy's per-MCP-server pattern
// groups, there is only one caller (the extraction/enrichment path) and
// no per-source configuration, so the set is a flat built-in list.
func builtinPatterns() []*CompiledPattern {
	specs := []struct {
		name        string
		pattern     string
		replacement string
		description string
	}{
		{
			name:        "jwt",
			pattern:     `\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`,
			replacement: "[MASKED_JWT]",
			description: "JSON Web Token",
		},
		{
			name:        "aws_access_key_id",
			pattern:     `\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`,
			replacement: "[MASKED_AWS_ACCESS_KEY]",
			description: "AWS access key ID",
		},
		{
			name:        "generic_bearer_token",
			pattern:     `(?i)\bBearer\s+[A-Za-z0-9_\-.=]{12,}\b`,
			replacement: "Bearer [MASKED_TOKEN]",
			description: "Authorization: Bearer header value",
		},
		{
			name:        "openai_style_api_key",
			pattern:     `\bsk-[A-Za-z0-9]{20,}\b`,
			replacement: "[MASKED_API_KEY]",
			description: "sk-prefixed API key (OpenAI/Anthropic style)",
		},
		{
			name:        "slack_token",
			pattern:     `\bxox[baprs]-[A-Za-z0-9-]{10,}\b`,
			replacement: "[MASKED_SLACK_TOKEN]",
			description: "Slack bot/user/app token",
		},
		{
			name:        "github_token",
			pattern:     `\bgh[pousr]_[A-Za-z0-9]{30,}\b`,
			replacement: "[MASKED_GITHUB_TOKEN]",
			description: "GitHub personal access / app token",
		},
		{
			name:        "private_key_block",
			pattern:     `-----BEGIN (?:RSA |EC |OPENSSH )?PRIVATE KEY-----[\s\S]*?-----END (?:RSA |EC |OPENSSH )?PRIVATE KEY-----`,
			replacement: "[MASKED_PRIVATE_KEY]",
			description: "PEM private key block",
		},
	}

	out := make([]*CompiledPattern, 0, len(specs))
	for _, s := range specs {
		out = append(out, &CompiledPattern{
			Name:        s.name,
			Regex:       regexp.MustCompile(s.pattern),
			Replacement: s.replacement,
			Description: s.description,
		})
	}
	return out
}
