// Package mem implements sparse, page-backed guest RAM.
//
// A Sparse represents a fixed-size range of guest physical memory but
// commits host storage one 4 KiB page at a time, on first touch. Untouched
// addresses read as zero. Pages are never freed individually; they are
// released together when the Sparse becomes unreachable.
//
// Accesses that cross page boundaries are split into page-aligned chunks
// and copied in address-ascending order. The bounds check covers the whole
// request up front, so an access either completes byte-exactly or has no
// effect at all.
package mem
