package nucfrac

import (
	"runtime"

	"github.com/cellqc/nucfrac/annotation"
	"github.com/cellqc/nucfrac/encoding/bamprovider"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
)

// Opts controls one nuclear-fraction computation. The zero value of each
// field means "use the default".
type Opts struct {
	// BarcodeTag is the two-character aux tag holding the error-corrected
	// cell barcode.
	BarcodeTag string
	// RegionTag is the two-character aux tag holding the one-character region
	// code ('E' exonic, 'N' intronic, 'I' intergenic).
	RegionTag string
	// GTFPath, if nonempty, switches region classification from RegionTag to
	// gene annotations read from the (possibly gzipped) GTF at this path. Use
	// it for BAMs whose aligner did not stamp region tags.
	GTFPath string
	// Tiles is the number of genomic intervals the reference is partitioned
	// into; more tiles give the scheduler smaller work units.
	Tiles int
	// Cores bounds the number of concurrently scanning workers. 0 means
	// runtime.NumCPU(). The effective bound never exceeds the tile count.
	Cores int
	// Verbose enables progress logging. It has no effect on results.
	Verbose bool
}

// DefaultOpts uses the tag conventions of cellranger-style pipelines.
var DefaultOpts = Opts{
	BarcodeTag: "CB",
	RegionTag:  "RE",
	Tiles:      100,
	Cores:      0,
}

// TallyRegions scans all tiles of the provider's reference and returns the
// global per-barcode region tallies. The returned table is identical for any
// worker count; a scan failure on any tile aborts the whole computation with
// an error naming the tile.
func TallyRegions(provider bamprovider.Provider, opts Opts) (CountTable, ScanStats, error) {
	if opts.BarcodeTag == "" {
		opts.BarcodeTag = DefaultOpts.BarcodeTag
	}
	if opts.RegionTag == "" {
		opts.RegionTag = DefaultOpts.RegionTag
	}
	if opts.Tiles == 0 {
		opts.Tiles = DefaultOpts.Tiles
	}
	if len(opts.BarcodeTag) != 2 {
		return nil, ScanStats{}, errors.New("barcode tag must be two characters: " + opts.BarcodeTag)
	}
	if len(opts.RegionTag) != 2 {
		return nil, ScanStats{}, errors.New("region tag must be two characters: " + opts.RegionTag)
	}
	barcodeTag := sam.Tag{opts.BarcodeTag[0], opts.BarcodeTag[1]}
	var cls regionClassifier = tagClassifier{tag: sam.Tag{opts.RegionTag[0], opts.RegionTag[1]}}
	if opts.GTFPath != "" {
		index, err := annotation.LoadGTF(vcontext.Background(), opts.GTFPath)
		if err != nil {
			return nil, ScanStats{}, err
		}
		cls = annotationClassifier{index: index}
	}

	tiles, err := provider.GenerateTiles(opts.Tiles)
	if err != nil {
		return nil, ScanStats{}, err
	}
	nTile := len(tiles)
	parallelism := opts.Cores
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > nTile {
		parallelism = nTile
	}
	if opts.Verbose {
		log.Printf("nucfrac: scanning %d tiles (%d jobs)", nTile, parallelism)
	}

	// Each job owns a contiguous slice of the tile sequence and its own BAM
	// handle per tile, so no locking is needed: partial tables land in
	// per-tile slots and job counters in per-job slots.
	partials := make([]CountTable, nTile)
	jobStats := make([]ScanStats, parallelism)
	err = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * nTile) / parallelism
		endIdx := ((jobIdx + 1) * nTile) / parallelism
		for tileIdx := startIdx; tileIdx < endIdx; tileIdx++ {
			tile := tiles[tileIdx]
			table := make(CountTable)
			iter := provider.NewIterator(tile)
			scanErr := scanTile(iter, barcodeTag, cls, table, &jobStats[jobIdx])
			if closeErr := iter.Close(); scanErr == nil {
				scanErr = closeErr
			}
			if scanErr != nil {
				return errors.E(scanErr, "failed to scan tile", tile.String())
			}
			partials[tileIdx] = table
			if opts.Verbose {
				log.Printf("nucfrac: tile %s done (%d barcodes)", tile.String(), len(table))
			}
		}
		return nil
	})
	if err != nil {
		return nil, ScanStats{}, err
	}

	var stats ScanStats
	for i := range jobStats {
		stats.Merge(jobStats[i])
	}
	global := MergeTables(partials)
	if opts.Verbose {
		log.Printf("nucfrac: %d records scanned, %d skipped without tags, %d with unrecognized region codes, %d barcodes seen",
			stats.Records, stats.MissingTag, stats.UnknownRegion, len(global))
	}
	return global, stats, nil
}

// NuclearFractions computes one Result per requested barcode, in request
// order. It is the composition of TallyRegions and Fractions.
func NuclearFractions(provider bamprovider.Provider, barcodes []string, opts Opts) ([]Result, error) {
	global, _, err := TallyRegions(provider, opts)
	if err != nil {
		return nil, err
	}
	return Fractions(global, barcodes), nil
}
