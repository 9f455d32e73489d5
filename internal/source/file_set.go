package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns the declaration files loaded for one compilation unit.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet. FileID 0 is reserved.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1, 8),
		index: make(map[string]FileID),
	}
}

// Add stores normalized content and returns a new FileID.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	normalized := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// Load reads a file from disk, strips a BOM and normalizes CRLF.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file or nil for an unknown ID.
func (fs *FileSet) Get(id FileID) *File {
	if id == 0 || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Lookup finds the most recently added file with the given path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// Files returns all loaded files in ID order.
func (fs *FileSet) Files() []File {
	return fs.files[1:]
}

// Resolve converts a span into line/column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// LineSpan returns the span covering a 1-based line, without its newline.
func (fs *FileSet) LineSpan(id FileID, line int) Span {
	f := fs.Get(id)
	if f == nil {
		return Span{File: id}
	}
	return f.LineSpan(line)
}

// LineSpan returns the span covering a 1-based line of f.
func (f *File) LineSpan(line int) Span {
	if line <= 0 {
		return Span{File: f.ID}
	}
	var start uint32
	if line > 1 {
		if line-2 >= len(f.LineIdx) {
			return Span{File: f.ID}
		}
		start = f.LineIdx[line-2] + 1
	}
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if line-1 < len(f.LineIdx) {
		end = f.LineIdx[line-1]
	}
	return Span{File: f.ID, Start: start, End: end}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
