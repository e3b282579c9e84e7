package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks content that did not come from disk (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM is set when a UTF-8 BOM was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF is set when CRLF line endings were rewritten to LF.
	FileNormalizedCRLF
)

// File captures metadata and content for a single Rust source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    uint64   // xxhash of Content
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
