package model

// CandidateKind tells where a candidate was found.
type CandidateKind string

const (
	// CandidateDescription is the value of a `description` attribute inside an option declaration.
	CandidateDescription CandidateKind = "description"
	// CandidateEnable is the argument of an enable-flag constructor call.
	CandidateEnable CandidateKind = "enable"
)

// Candidate is a located span of source text proposed for markup conversion.
type Candidate struct {
	Span Span
	// RequiresParens is set for enable-flag arguments: the rewritten text has to
	// stay a single expression when substituted in place.
	RequiresParens bool
}

// Kind derives the candidate kind from RequiresParens.
func (c Candidate) Kind() CandidateKind {
	if c.RequiresParens {
		return CandidateEnable
	}

	return CandidateDescription
}
