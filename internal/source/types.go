package source

// FileID uniquely identifies a source file within a FileSet.
type FileID uint32

// NoFileID marks spans that do not point into any registered file.
const NoFileID FileID = 0

// File captures the text a CST was parsed from. Content is optional: CST
// documents that omit the source text still get a FileID so spans stay
// comparable.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
