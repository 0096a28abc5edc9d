package nucfrac

import (
	"github.com/cellqc/nucfrac/annotation"
	"github.com/cellqc/nucfrac/encoding/bamprovider"
	"github.com/grailbio/hts/sam"
)

// RegionType classifies a read's alignment as exonic, intronic, or
// intergenic. It is a closed enumeration; tag values outside the three
// recognized codes are skipped during scanning, never propagated.
type RegionType int

const (
	// Exonic means the read aligned within annotated exons.
	Exonic RegionType = iota
	// Intronic means the read aligned within a gene but outside its exons.
	Intronic
	// Intergenic means the read aligned outside annotated genes.
	Intergenic
)

// Single-character codes stored in the region tag by cellranger-style
// pipelines.
const (
	codeExonic     = 'E'
	codeIntronic   = 'N'
	codeIntergenic = 'I'
)

// regionClassifier assigns a region type to one alignment record. missing
// reports that the record carries no region information; unknown reports an
// unrecognized region code. A record with either flag set is skipped.
type regionClassifier interface {
	Region(rec *sam.Record) (region RegionType, missing, unknown bool)
}

// tagClassifier reads the region type off a one-character aux tag.
type tagClassifier struct {
	tag sam.Tag
}

func (c tagClassifier) Region(rec *sam.Record) (RegionType, bool, bool) {
	aux := rec.AuxFields.Get(c.tag)
	if aux == nil {
		return 0, true, false
	}
	code, ok := auxChar(aux)
	if !ok {
		return 0, false, true
	}
	switch code {
	case codeExonic:
		return Exonic, false, false
	case codeIntronic:
		return Intronic, false, false
	case codeIntergenic:
		return Intergenic, false, false
	}
	return 0, false, true
}

// annotationClassifier derives the region type from GTF annotations, for BAMs
// whose aligner did not stamp a region tag.
type annotationClassifier struct {
	index *annotation.Index
}

func (c annotationClassifier) Region(rec *sam.Record) (RegionType, bool, bool) {
	switch c.index.Classify(rec.Ref.Name(), rec.Pos, rec.End()) {
	case annotation.Exon:
		return Exonic, false, false
	case annotation.Intron:
		return Intronic, false, false
	}
	return Intergenic, false, false
}

// auxChar extracts a one-character code from an aux field, accepting both
// 'A'-typed tags and single-character 'Z'-typed tags.
func auxChar(aux sam.Aux) (byte, bool) {
	switch v := aux.Value().(type) {
	case uint8:
		return v, true
	case string:
		if len(v) == 1 {
			return v[0], true
		}
	}
	return 0, false
}

// scanTile drains iter, tallying one count per record that carries both a
// barcode and a recognized region type. The iterator yields exactly the
// records whose start positions fall in the tile, so a read spanning a tile
// boundary is counted once, in the tile owning its start.
func scanTile(iter bamprovider.Iterator, barcodeTag sam.Tag, cls regionClassifier, table CountTable, stats *ScanStats) error {
	for iter.Scan() {
		rec := iter.Record()
		stats.Records++
		aux := rec.AuxFields.Get(barcodeTag)
		if aux == nil {
			stats.MissingTag++
			continue
		}
		barcode, ok := aux.Value().(string)
		if !ok || barcode == "" {
			stats.MissingTag++
			continue
		}
		region, missing, unknown := cls.Region(rec)
		if missing {
			stats.MissingTag++
			continue
		}
		if unknown {
			stats.UnknownRegion++
			continue
		}
		table.add(barcode, region)
	}
	return iter.Err()
}
