package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cellqc/nucfrac/cellranger"
	"github.com/cellqc/nucfrac/encoding/bamprovider"
	"github.com/cellqc/nucfrac/nucfrac"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	indexPath    = flag.String("index", "", "Input BAM index path. Defaults to bampath + .bai")
	barcodesPath = flag.String("barcodes", "", "Barcode list (one barcode per line, optionally gzipped). Defaults to the filtered barcode list under the outs directory")
	gtfPath      = flag.String("gtf", nucfrac.DefaultOpts.GTFPath, "GTF path; derive region types from gene annotations instead of the region tag")
	barcodeTag   = flag.String("barcode-tag", nucfrac.DefaultOpts.BarcodeTag, "Aux tag holding the error-corrected cell barcode")
	regionTag    = flag.String("region-tag", nucfrac.DefaultOpts.RegionTag, "Aux tag holding the region-type code (E/N/I)")
	tiles        = flag.Int("tiles", nucfrac.DefaultOpts.Tiles, "Number of genomic tiles to partition the reference into")
	cores        = flag.Int("cores", nucfrac.DefaultOpts.Cores, "Maximum number of simultaneous scanning workers; 0 = runtime.NumCPU()")
	outPath      = flag.String("out", "-", "Output TSV path; '-' writes to stdout")
	verbose      = flag.Bool("v", false, "Enable progress logging")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] {bampath|outsdir}\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one positional argument (bampath or outsdir) expected; please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	input := flag.Arg(0)
	ctx := vcontext.Background()

	bamPath := input
	if !strings.HasSuffix(input, ".bam") {
		var err error
		if bamPath, err = cellranger.FindBAM(ctx, input); err != nil {
			log.Fatalf("Failed to locate BAM: %v", err)
		}
		if *barcodesPath == "" {
			if *barcodesPath, err = cellranger.FindBarcodes(ctx, input); err != nil {
				log.Fatalf("Failed to locate barcode list: %v", err)
			}
		}
	}
	if *barcodesPath == "" {
		log.Fatalf("-barcodes is required when the input is a BAM path")
	}
	barcodes, err := cellranger.ReadBarcodes(ctx, *barcodesPath)
	if err != nil {
		log.Fatalf("Failed to read barcode list: %v", err)
	}
	if *verbose {
		log.Printf("nucfrac: %d barcodes from %s", len(barcodes), *barcodesPath)
	}

	provider := bamprovider.NewProvider(bamPath, bamprovider.ProviderOpts{Index: *indexPath})
	results, err := nucfrac.NuclearFractions(provider, barcodes, nucfrac.Opts{
		BarcodeTag: *barcodeTag,
		RegionTag:  *regionTag,
		GTFPath:    *gtfPath,
		Tiles:      *tiles,
		Cores:      *cores,
		Verbose:    *verbose,
	})
	if err != nil {
		log.Fatalf("%s: %v", bamPath, err)
	}
	if err := provider.Close(); err != nil {
		log.Fatalf("%s: close: %v", bamPath, err)
	}

	var w io.Writer = os.Stdout
	if *outPath != "-" {
		out, err := file.Create(ctx, *outPath)
		if err != nil {
			log.Fatalf("%s: %v", *outPath, err)
		}
		defer func() {
			if err := out.Close(ctx); err != nil {
				log.Fatalf("%s: close: %v", *outPath, err)
			}
		}()
		w = out.Writer(ctx)
	}
	if err := nucfrac.WriteTSV(w, results); err != nil {
		log.Fatalf("Failed to write results: %v", err)
	}
}
