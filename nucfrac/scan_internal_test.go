package nucfrac

import (
	"fmt"
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil/expect"
)

func newAux(name string, val interface{}) sam.Aux {
	aux, err := sam.NewAux(sam.NewTag(name), val)
	if err != nil {
		panic(fmt.Sprintf("error creating %s %v tag: %v", name, val, err))
	}
	return aux
}

func TestTagClassifier(t *testing.T) {
	cls := tagClassifier{tag: sam.NewTag("RE")}

	for _, tc := range []struct {
		code string
		want RegionType
	}{
		{"E", Exonic},
		{"N", Intronic},
		{"I", Intergenic},
	} {
		rec := &sam.Record{AuxFields: []sam.Aux{newAux("RE", tc.code)}}
		region, missing, unknown := cls.Region(rec)
		expect.False(t, missing, "code %s", tc.code)
		expect.False(t, unknown, "code %s", tc.code)
		expect.EQ(t, region, tc.want, "code %s", tc.code)
	}

	// No region tag at all.
	rec := &sam.Record{AuxFields: []sam.Aux{newAux("CB", "AAAA-1")}}
	_, missing, unknown := cls.Region(rec)
	expect.True(t, missing)
	expect.False(t, unknown)

	// Unrecognized one-character code.
	rec = &sam.Record{AuxFields: []sam.Aux{newAux("RE", "X")}}
	_, missing, unknown = cls.Region(rec)
	expect.False(t, missing)
	expect.True(t, unknown)

	// Region tag holding a value that is not a one-character code.
	rec = &sam.Record{AuxFields: []sam.Aux{newAux("RE", "EXON")}}
	_, missing, unknown = cls.Region(rec)
	expect.False(t, missing)
	expect.True(t, unknown)
}

func TestCountTableAdd(t *testing.T) {
	table := make(CountTable)
	table.add("AAAA-1", Exonic)
	table.add("AAAA-1", Exonic)
	table.add("AAAA-1", Intronic)
	table.add("CCCC-1", Intergenic)
	expect.EQ(t, table["AAAA-1"], Counts{Exonic: 2, Intronic: 1})
	expect.EQ(t, table["CCCC-1"], Counts{Intergenic: 1})
	expect.EQ(t, table["AAAA-1"].TotalRelevant(), uint64(3))
	expect.EQ(t, table["CCCC-1"].TotalRelevant(), uint64(0))
}
