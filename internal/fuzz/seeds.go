package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"cool/internal/manifest"
)

const maxSeedBytes = 64 << 10

// addManifestSeeds adds every manifest under the repository testdata
// directory in the given format.
func addManifestSeeds(f *testing.F, format manifest.Format) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if got, ok := manifest.FormatOf(path); !ok || got != format {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

var typeSeeds = []string{
	"i32",
	"*mut geom.Point",
	"[*]u8",
	"[]mut u16",
	"[16]f64",
	"()",
	"(u8,)",
	"(u8, (i16, i32))",
	"fn(*u8, ...) -> i32",
	`extern "c" fn(usize) -> ()`,
	"*Node | ()",
	"u8 | u16 | u32",
	"super.super.x",
	"_",
	"[4294967296]u8",
	"fn() -> fn() -> u8 | u8",
	"((((",
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return append([]byte(nil), src...)
}
