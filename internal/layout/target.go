package layout

import (
	"fmt"
	"slices"
	"strings"
)

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
}

func X86_64LinuxGNU() Target {
	return Target{Triple: "x86_64-linux-gnu", PtrSize: 8, PtrAlign: 8}
}

func AArch64LinuxGNU() Target {
	return Target{Triple: "aarch64-linux-gnu", PtrSize: 8, PtrAlign: 8}
}

func I686LinuxGNU() Target {
	return Target{Triple: "i686-linux-gnu", PtrSize: 4, PtrAlign: 4}
}

func Wasm32() Target {
	return Target{Triple: "wasm32", PtrSize: 4, PtrAlign: 4}
}

var knownTargets = []Target{X86_64LinuxGNU(), AArch64LinuxGNU(), I686LinuxGNU(), Wasm32()}

// Targets lists the built-in target presets.
func Targets() []Target {
	return slices.Clone(knownTargets)
}

// TargetByName returns the preset for triple. The empty name selects
// x86_64-linux-gnu.
func TargetByName(triple string) (Target, error) {
	if triple == "" {
		return X86_64LinuxGNU(), nil
	}
	for _, t := range knownTargets {
		if t.Triple == triple {
			return t, nil
		}
	}
	names := make([]string, len(knownTargets))
	for i, t := range knownTargets {
		names[i] = t.Triple
	}
	return Target{}, fmt.Errorf("unknown target %q (known: %s)", triple, strings.Join(names, ", "))
}
