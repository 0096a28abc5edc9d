package nucfrac_test

import (
	"math/rand"
	"testing"

	"github.com/cellqc/nucfrac/nucfrac"
	"github.com/grailbio/testutil/expect"
)

func TestFractions(t *testing.T) {
	global := nucfrac.CountTable{
		"AAAA-1": {Exonic: 7, Intronic: 3, Intergenic: 100},
		"CCCC-1": {Intergenic: 5},
		"GGGG-1": {Intronic: 2},
	}
	results := nucfrac.Fractions(global, []string{"AAAA-1", "CCCC-1", "GGGG-1", "TTTT-1", "AAAA-1"})
	expect.EQ(t, results, []nucfrac.Result{
		// Intergenic reads never enter the score.
		{Barcode: "AAAA-1", NuclearFraction: 0.7, Defined: true, TotalReads: 10},
		// Intergenic-only and absent barcodes are undefined, not zero.
		{Barcode: "CCCC-1"},
		{Barcode: "GGGG-1", NuclearFraction: 0.0, Defined: true, TotalReads: 2},
		{Barcode: "TTTT-1"},
		// Duplicate requests are answered verbatim, in request order.
		{Barcode: "AAAA-1", NuclearFraction: 0.7, Defined: true, TotalReads: 10},
	})
}

func TestFractionsEmpty(t *testing.T) {
	expect.EQ(t, nucfrac.Fractions(nucfrac.CountTable{}, nil), []nucfrac.Result{})
}

// Merging partial tables is associative and commutative, so the global table
// must come out identical for any grouping and order of the partials.
func TestMergeTablesOrderInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	barcodes := []string{"AAAA-1", "CCCC-1", "GGGG-1", "TTTT-1"}
	partials := make([]nucfrac.CountTable, 20)
	for i := range partials {
		partials[i] = make(nucfrac.CountTable)
		for _, bc := range barcodes {
			if rnd.Intn(2) == 0 {
				continue
			}
			partials[i][bc] = nucfrac.Counts{
				Exonic:     uint64(rnd.Intn(100)),
				Intronic:   uint64(rnd.Intn(100)),
				Intergenic: uint64(rnd.Intn(100)),
			}
		}
	}
	want := nucfrac.MergeTables(partials)

	for iter := 0; iter < 10; iter++ {
		shuffled := make([]nucfrac.CountTable, len(partials))
		copy(shuffled, partials)
		rnd.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		// Merge in two arbitrary halves, then merge the halves.
		split := 1 + rnd.Intn(len(shuffled)-1)
		left := nucfrac.MergeTables(shuffled[:split])
		right := nucfrac.MergeTables(shuffled[split:])
		got := nucfrac.MergeTables([]nucfrac.CountTable{left, right})
		expect.EQ(t, got, want, "iteration %d split %d", iter, split)
	}
}
