package driver

import (
	"cool/internal/diag"
	"cool/internal/observ"
	"cool/internal/resolve"
	"cool/internal/source"
)

// Request describes one resolver run over a set of manifests.
type Request struct {
	Paths          []string
	Target         string // overrides the manifests' target; "" keeps theirs
	Jobs           int    // parallel decoders; <= 0 means GOMAXPROCS
	MaxDiagnostics int    // <= 0 means unlimited
	MaxPasses      int    // <= 0 means until no progress
	Cache          *DiskCache
	Progress       ProgressSink // OnEvent may be called from loader goroutines
}

// PassSummary records the outcome of one fixed-point pass.
type PassSummary struct {
	Pass    int `json:"pass" yaml:"pass" msgpack:"pass"`
	Before  int `json:"before" yaml:"before" msgpack:"before"`
	After   int `json:"after" yaml:"after" msgpack:"after"`
	Defined int `json:"defined" yaml:"defined" msgpack:"defined"`
	Failed  int `json:"failed" yaml:"failed" msgpack:"failed"`
}

// Result is everything a run produced. Context is nil when the result was
// served from the disk cache.
type Result struct {
	Context *resolve.Context
	Files   *source.FileSet
	Bag     *diag.Bag
	Passes  []PassSummary
	Report  *Report
	Timing  observ.Report
	Session string
	Cached  bool
}
