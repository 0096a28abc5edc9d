// Package nucfrac computes a per-cell-barcode "nuclear fraction" QC score
// from an indexed BAM: the proportion of a barcode's exonic reads among its
// exonic plus intronic reads. Droplets containing intact cells capture mostly
// spliced cytoplasmic RNA, while empty droplets and damaged cells are
// dominated by unspliced nuclear RNA, so the score separates the two in
// downstream filtering.
//
// The computation partitions the genome into tiles, scans each tile's records
// in parallel through independent read-only BAM handles, tallies per-barcode
// region counts, and merges the per-tile tallies into one table. Each record
// is attributed to the single tile containing its alignment start position,
// so the merged table is independent of tile geometry, worker count, and
// scheduling order.
package nucfrac
