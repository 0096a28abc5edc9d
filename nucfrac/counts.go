package nucfrac

// Counts holds the per-region-type read tallies for one barcode.
type Counts struct {
	Exonic     uint64
	Intronic   uint64
	Intergenic uint64
}

// TotalRelevant returns the nuclear-fraction denominator. Intergenic reads do
// not participate in the score.
func (c Counts) TotalRelevant() uint64 {
	return c.Exonic + c.Intronic
}

// CountTable maps a cell barcode to its region tallies. One CountTable is
// produced per tile, owned exclusively by the worker that scanned the tile
// until it is merged.
type CountTable map[string]Counts

func (t CountTable) add(barcode string, region RegionType) {
	c := t[barcode]
	switch region {
	case Exonic:
		c.Exonic++
	case Intronic:
		c.Intronic++
	case Intergenic:
		c.Intergenic++
	}
	t[barcode] = c
}

// Merge adds every tally in src to t.
func (t CountTable) Merge(src CountTable) {
	for barcode, c := range src {
		cur := t[barcode]
		cur.Exonic += c.Exonic
		cur.Intronic += c.Intronic
		cur.Intergenic += c.Intergenic
		t[barcode] = cur
	}
}

// MergeTables reduces per-tile tables into one global table. Integer summation
// is associative and commutative, so the result is identical for any grouping
// or ordering of the partials, including nil entries for tiles with no reads.
func MergeTables(partials []CountTable) CountTable {
	global := make(CountTable)
	for _, p := range partials {
		global.Merge(p)
	}
	return global
}

// ScanStats holds diagnostic counters accumulated while scanning. They have no
// effect on the result table.
type ScanStats struct {
	// Records is the number of alignment records visited.
	Records uint64
	// MissingTag is the number of records skipped because the barcode or
	// region tag was absent.
	MissingTag uint64
	// UnknownRegion is the number of records skipped because the region tag
	// held an unrecognized code.
	UnknownRegion uint64
}

// Merge adds every counter in src to s.
func (s *ScanStats) Merge(src ScanStats) {
	s.Records += src.Records
	s.MissingTag += src.MissingTag
	s.UnknownRegion += src.UnknownRegion
}
