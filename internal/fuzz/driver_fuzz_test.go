package fuzztests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cool/internal/driver"
	"cool/internal/manifest"
)

// runTimeout bounds one driver run; exceeding it means the fixed-point loop
// failed to terminate.
const runTimeout = 5 * time.Second

func FuzzRunTerminates(f *testing.F) {
	addManifestSeeds(f, manifest.FormatTOML)
	f.Add([]byte("[crate]\nname = \"a\"\n[[struct]]\nname = \"S\"\nfields = [{ name = \"s\", type = \"S\" }]\n"))
	f.Add([]byte("[crate]\nname = \"a\"\n[[use]]\npath = \"x\"\nalias = \"y\"\n[[use]]\npath = \"y\"\nalias = \"x\"\n"))
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		path := filepath.Join(t.TempDir(), "fuzz.toml")
		if err := os.WriteFile(path, input, 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		res, err := driver.Run(ctx, driver.Request{Paths: []string{path}, MaxDiagnostics: 64})
		if err != nil {
			t.Fatalf("run did not finish: %v", err)
		}
		if res.Context != nil && res.Context.Pending() != 0 {
			t.Fatalf("%d entries left queued after the run", res.Context.Pending())
		}
	})
}
