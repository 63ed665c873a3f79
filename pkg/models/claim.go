package models

// ClaimKind tags the concrete type behind the Claim interface.
type ClaimKind string

const (
	ClaimKindFact       ClaimKind = "fact"
	ClaimKindConclusion ClaimKind = "conclusion"
	ClaimKindSolution   ClaimKind = "solution"
)

// Claim is the tagged union over the three claim node kinds extracted from
// a post. The claim graph itself is not an object graph — it is an arena of
// typed tables keyed by integer ID (per spec.md §9); Claim exists only so
// pipeline operators that dispatch on kind (e.g. the Logic Evaluator
// resolving a Logic's target) can do so without a type switch on concrete
// structs at every call site.
type Claim interface {
	ClaimKind() ClaimKind
	ClaimText() string
}

func (f *Fact) ClaimKind() ClaimKind       { return ClaimKindFact }
func (f *Fact) ClaimText() string          { return f.Claim }
func (c *Conclusion) ClaimKind() ClaimKind { return ClaimKindConclusion }
func (c *Conclusion) ClaimText() string    { return c.Claim }
func (s *Solution) ClaimKind() ClaimKind   { return ClaimKindSolution }
func (s *Solution) ClaimText() string      { return s.Claim }
