package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
)

// NoFile marks spans that do not point into any file of the current program,
// e.g. declarations loaded from a precompiled library.
const NoFile FileID = ^FileID(0)

// File captures the path and (optional) content of a file referenced by spans.
// Programs handed over by the expansion pass may omit the content; rendering
// then degrades to path:line:col without a preview.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offsets of '\n'
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
