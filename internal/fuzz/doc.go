// Package fuzztests houses Go fuzz harnesses for the manifest front end and
// the resolver driver. They guard against panics and hangs on arbitrary
// type strings and manifest bytes.
package fuzztests
