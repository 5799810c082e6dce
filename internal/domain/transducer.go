package domain

import (
	"github.com/mouse-blink/munge/internal/domain/rules"
	m "github.com/mouse-blink/munge/internal/model"
)

// DefaultMarker is the call inserted in front of every converted description.
const DefaultMarker = "lib.mdDoc"

// Transducer rewrites one candidate span of a file.
type Transducer interface {
	// Convert returns the whole file content with the candidate's span
	// converted and prefixed by the migrated marker. src is not modified.
	Convert(src []byte, c m.Candidate) []byte
}

type transducer struct {
	marker string
	chain  rules.Chain
}

// NewTransducer constructs a Transducer applying chain and inserting marker.
// A nil chain means rules.Default(); an empty marker means DefaultMarker.
func NewTransducer(marker string, chain rules.Chain) Transducer {
	if marker == "" {
		marker = DefaultMarker
	}

	if chain == nil {
		chain = rules.Default()
	}

	return &transducer{marker: marker, chain: chain}
}

func (t *transducer) Convert(src []byte, c m.Candidate) []byte {
	prefix := src[:c.Span.Start]
	suffix := src[c.Span.End:]
	chunk := t.chain.Apply(string(src[c.Span.Start:c.Span.End]))

	out := make([]byte, 0, len(src)+len(t.marker)+len(chunk)-c.Span.Len()+3)
	out = append(out, prefix...)

	if c.RequiresParens {
		out = append(out, '(')
	}

	out = append(out, t.marker...)
	out = append(out, ' ')
	out = append(out, chunk...)

	if c.RequiresParens {
		out = append(out, ')')
	}

	return append(out, suffix...)
}
