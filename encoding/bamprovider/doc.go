// Package bamprovider provides utilities for scanning an indexed BAM file in
// parallel.
//
// The Provider hands out independent iterators over genomic tiles, each backed
// by its own read-only file handle, so any number of goroutines can scan
// disjoint tiles concurrently.
package bamprovider
