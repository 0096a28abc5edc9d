// Package cellranger resolves the conventional output-directory layout of
// cellranger-style pipelines: the position-sorted BAM and the filtered
// barcode list that the nuclear-fraction computation consumes.
package cellranger

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// bamNames are the position-sorted BAM filenames produced by the gene
// expression, multiome, and ATAC pipelines, in resolution order.
var bamNames = []string{
	"possorted_genome_bam.bam",
	"gex_possorted_bam.bam",
	"atac_possorted_bam.bam",
}

// barcodeNames are the filtered barcode lists, in resolution order.
var barcodeNames = []string{
	"filtered_feature_bc_matrix/barcodes.tsv.gz",
	"filtered_feature_bc_matrix/barcodes.tsv",
	"filtered_peak_bc_matrix/barcodes.tsv.gz",
	"filtered_peak_bc_matrix/barcodes.tsv",
}

// FindBAM returns the path of the position-sorted BAM under the given outs
// directory.
func FindBAM(ctx context.Context, outsDir string) (string, error) {
	return findFirst(ctx, outsDir, bamNames)
}

// FindBarcodes returns the path of the filtered barcode list under the given
// outs directory.
func FindBarcodes(ctx context.Context, outsDir string) (string, error) {
	return findFirst(ctx, outsDir, barcodeNames)
}

func findFirst(ctx context.Context, dir string, names []string) (string, error) {
	for _, name := range names {
		path := file.Join(dir, name)
		if _, err := file.Stat(ctx, path); err == nil {
			return path, nil
		}
	}
	return "", errors.Errorf("cellranger: no %s found under %s", names[0], dir)
}

// ReadBarcodes parses a one-barcode-per-line list, gzipped or plain,
// preserving file order. Blank lines are skipped.
func ReadBarcodes(ctx context.Context, path string) (barcodes []string, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "cellranger: open %s", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "cellranger: decompress %s", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if barcode := strings.TrimSpace(scanner.Text()); barcode != "" {
			barcodes = append(barcodes, barcode)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "cellranger: read %s", path)
	}
	return barcodes, nil
}
