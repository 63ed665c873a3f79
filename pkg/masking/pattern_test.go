package masking

import "testing"

func TestBuiltinPatterns_AllCompile(t *testing.T) {
	patterns := builtinPatterns()
	if len(patterns) == 0 {
		t.Fatal("expected at least one builtin pattern")
	}
	seen := make(map[string]bool)
	for _, p := range patterns {
		if p.Regex == nil {
			t.Fatalf("pattern %s has nil regex", p.Name)
		}
		if seen[p.Name] {
			t.Fatalf("duplicate pattern name %s", p.Name)
		}
		seen[p.Name] = true
	}
}
