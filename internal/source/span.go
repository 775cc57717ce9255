package source

import "fmt"

// Span is a half-open byte range [Start, End) inside File. The zero Span
// means "no position" and is what synthesized nodes carry.
type Span struct {
	File  FileID `yaml:"file,omitempty" msgpack:"file,omitempty"`
	Start uint32 `yaml:"start" msgpack:"start"`
	End   uint32 `yaml:"end" msgpack:"end"`
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

// Contains reports whether inner lies within s. Spans of different files
// never contain each other.
func (s Span) Contains(inner Span) bool {
	return s.File == inner.File && s.Start <= inner.Start && inner.End <= s.End
}

// Cover returns the smallest span containing both s and other. The zero
// span is absorbed; spans from different files are left alone.
func (s Span) Cover(other Span) Span {
	switch {
	case s == (Span{}):
		return other
	case s.File != other.File:
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}

// WithFile rebinds the span to another file.
func (s Span) WithFile(id FileID) Span {
	s.File = id
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
