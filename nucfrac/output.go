package nucfrac

import (
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// WriteTSV writes results as a three-column table with a header line.
// Undefined fractions are written as NA, so downstream tabular tooling can
// tell "no score" apart from a score of zero.
func WriteTSV(w io.Writer, results []Result) (err error) {
	out := tsv.NewWriter(w)
	out.WriteString("barcode\tnuclear_fraction\ttotal_relevant_reads")
	if err = out.EndLine(); err != nil {
		return err
	}
	for _, r := range results {
		out.WriteString(r.Barcode)
		if r.Defined {
			out.WriteString(strconv.FormatFloat(r.NuclearFraction, 'g', -1, 64))
		} else {
			out.WriteString("NA")
		}
		out.WriteInt64(int64(r.TotalReads))
		if err = out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
