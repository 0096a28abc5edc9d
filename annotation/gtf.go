// Package annotation classifies genomic intervals as exonic, intronic, or
// intergenic using gene annotations read from a GTF file. It backs the
// nuclear-fraction computation for BAMs whose aligner did not stamp
// per-record region tags.
package annotation

import (
	"bufio"
	"context"
	"io"

	"github.com/biogo/store/interval"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// Region is the classification of one genomic interval.
type Region int

const (
	// Intergenic means no annotated gene overlaps the interval.
	Intergenic Region = iota
	// Intron means a gene overlaps the interval but none of its exons do.
	Intron
	// Exon means an annotated exon overlaps the interval.
	Exon
)

// gtfRecord is the standard nine-column GTF line.
type gtfRecord struct {
	Chrom   string
	Source  string
	Feature string
	Start   int // 1-based, inclusive
	Stop    int // 1-based, inclusive
	Score   string
	Strand  string
	Frame   string
	Fields  string
}

// span is an interval-tree element. Strand is intentionally ignored: a read
// from either strand of an exon is exonic.
type span struct {
	start, end int // 0-based, half-open
	id         uintptr
}

func (s span) Overlap(b interval.IntRange) bool { return s.start < b.End && s.end > b.Start }
func (s span) Range() interval.IntRange         { return interval.IntRange{Start: s.start, End: s.end} }
func (s span) ID() uintptr                      { return s.id }

// Index holds per-contig interval trees for exons and gene bodies.
type Index struct {
	exons map[string]*interval.IntTree
	genes map[string]*interval.IntTree
}

// LoadGTF reads gene annotations from the (possibly gzipped) GTF at path and
// builds an Index. Exon lines populate the exon trees; transcript and gene
// lines populate the gene-body trees used to tell introns from intergenic
// space. Contig names must match the BAM header's reference names.
func LoadGTF(ctx context.Context, path string) (*Index, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "annotation: open %s", path)
	}
	defer in.Close(ctx) // nolint: errcheck
	var inr io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(inr, in.Name()); u != nil {
		inr = u
	}

	index := &Index{
		exons: map[string]*interval.IntTree{},
		genes: map[string]*interval.IntTree{},
	}
	scanner := tsv.NewReader(bufio.NewReaderSize(inr, 64<<10))
	scanner.Comment = '#'
	scanner.LazyQuotes = true
	var nextID uintptr
	var line gtfRecord
	for {
		if err := scanner.Read(&line); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "annotation: parse %s", path)
		}
		if line.Stop < line.Start {
			return nil, errors.Errorf("annotation: %s: feature end %d precedes start %d", path, line.Stop, line.Start)
		}
		var trees map[string]*interval.IntTree
		switch line.Feature {
		case "exon":
			trees = index.exons
		case "gene", "transcript":
			trees = index.genes
		default:
			continue
		}
		tree := trees[line.Chrom]
		if tree == nil {
			tree = &interval.IntTree{}
			trees[line.Chrom] = tree
		}
		nextID++
		// GTF is 1-based inclusive; trees hold 0-based half-open spans.
		if err := tree.Insert(span{start: line.Start - 1, end: line.Stop, id: nextID}, true); err != nil {
			return nil, errors.Wrapf(err, "annotation: index %s", path)
		}
	}
	for _, tree := range index.exons {
		tree.AdjustRanges()
	}
	for _, tree := range index.genes {
		tree.AdjustRanges()
	}
	return index, nil
}

// Classify reports the region type of the 0-based half-open interval
// [start, end) on the named contig. Exon overlap wins over gene-body overlap;
// an interval overlapping neither is intergenic.
func (ix *Index) Classify(refName string, start, end int) Region {
	if overlaps(ix.exons[refName], start, end) {
		return Exon
	}
	if overlaps(ix.genes[refName], start, end) {
		return Intron
	}
	return Intergenic
}

func overlaps(tree *interval.IntTree, start, end int) bool {
	if tree == nil || end <= start {
		return false
	}
	return len(tree.Get(span{start: start, end: end})) > 0
}
