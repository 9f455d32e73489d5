// Package resolve ties the symbol table, the type interner and the layout
// engine into one resolution context per compilation unit. Declarations whose
// types reference items that are not defined yet are queued and retried by
// Pass until a pass makes no progress; the caller drives that loop.
package resolve
