package nucfrac

// Result is one row of the nuclear-fraction table.
type Result struct {
	// Barcode is the requested cell barcode, verbatim.
	Barcode string
	// NuclearFraction is exonic / (exonic + intronic). Meaningful only when
	// Defined is true; a barcode with no exonic or intronic reads has no
	// score, which is distinct from a score of zero.
	NuclearFraction float64
	// Defined reports whether NuclearFraction could be computed.
	Defined bool
	// TotalReads is the denominator, exonic + intronic.
	TotalReads uint64
}

// Fractions converts global tallies into one Result per requested barcode,
// preserving request order (and duplicates, if the caller supplies them).
// Barcodes absent from the table, or present with only intergenic reads, get
// an undefined score; neither case is an error.
func Fractions(global CountTable, barcodes []string) []Result {
	results := make([]Result, len(barcodes))
	for i, barcode := range barcodes {
		r := Result{Barcode: barcode}
		if c, ok := global[barcode]; ok {
			if total := c.TotalRelevant(); total > 0 {
				r.NuclearFraction = float64(c.Exonic) / float64(total)
				r.Defined = true
				r.TotalReads = total
			}
		}
		results[i] = r
	}
	return results
}
