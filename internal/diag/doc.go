// Package diag defines the diagnostic model shared by the resolver, the
// manifest loader and the driver.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string form (RES, LAY, PRJ, OBS ranges), a short message, the primary span
// and optional notes. Producers emit through a Reporter; the driver collects
// into a Bag, which sorts and deduplicates for deterministic output.
//
// Typed errors from the core packages are converted with FromError, so the
// core never formats anything for users itself.
package diag
