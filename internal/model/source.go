// Package model defines the data structures shared by the migration pipeline.
package model

// Path represents a file system path.
type Path string

// Span is a half-open byte range [Start, End) into a file's text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Source is one input file together with the candidates located in it.
type Source struct {
	// Path is the file path as given on the command line.
	Path Path
	// Rel is Path relative to the workspace root.
	Rel Path
	// Content is the file text as read before any rewrite.
	Content []byte
	// Candidates are ordered by descending Span.Start.
	Candidates []Candidate
}

// FileResult holds the outcome of migrating a single source file.
type FileResult struct {
	Source Source
	// Content is the working text after every committed rewrite.
	Content   []byte
	Committed int
	Rejected  int // build succeeded but the normalized output differed
	Failed    int // rewritten build failed
}

// Changed reports whether at least one rewrite was committed.
func (r FileResult) Changed() bool {
	return r.Committed > 0
}
