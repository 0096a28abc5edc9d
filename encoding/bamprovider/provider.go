package bamprovider

import (
	"github.com/cellqc/nucfrac/tiling"
	"github.com/grailbio/hts/sam"
)

// ProviderOpts defines options for NewProvider.
type ProviderOpts struct {
	// Index specifies the name of the BAM index file. If Index=="", it
	// defaults to path + ".bai".
	Index string
}

// Provider allows reading an indexed BAM file in parallel. Thread safe.
type Provider interface {
	// GetHeader returns the header for the provided BAM data. The callee
	// must not modify the returned header object.
	//
	// REQUIRES: Close has not been called.
	GetHeader() (*sam.Header, error)

	// GenerateTiles prepares for parallel reading of genomic data by
	// partitioning the reference described by the BAM header into n or more
	// contiguous, non-overlapping tiles. A record is associated with a tile
	// iff its alignment start position falls inside the tile, so every mapped
	// record belongs to exactly one tile.
	//
	// Use NewIterator to read records in a tile.
	//
	// REQUIRES: Close has not been called.
	GenerateTiles(n int) ([]tiling.Tile, error)

	// NewIterator returns an iterator over records whose start positions are
	// contained in the tile. The tile is usually produced by GenerateTiles,
	// but the caller may also construct it manually.
	//
	// REQUIRES: Close has not been called.
	NewIterator(tile tiling.Tile) Iterator

	// Close must be called exactly once. It returns any error encountered
	// by the provider, or any iterator created by the provider.
	//
	// REQUIRES: All the iterators created by NewIterator have been closed.
	Close() error
}

// Iterator iterates over sam.Records in a particular genomic tile, in
// coordinate order. Thread compatible.
type Iterator interface {
	// Scan returns whether there are any records remaining in the iterator,
	// and if so, advances the iterator to the next record. If the iterator
	// reaches the end of its tile, Scan() returns false. If an error occurs,
	// Scan() returns false and the error can be retrieved by calling Err().
	//
	// REQUIRES: Close has not been called.
	Scan() bool

	// Record returns the current record in the iterator. This must be
	// called only after a call to Scan() returns true.
	//
	// REQUIRES: Close has not been called.
	Record() *sam.Record

	// Err returns the error encountered during iteration, or nil if no error
	// occurred. An io.EOF error will be translated to nil.
	Err() error

	// Close must be called exactly once. It returns the value of Err().
	Close() error
}

func mergeOpts(optList []ProviderOpts) ProviderOpts {
	opts := ProviderOpts{}
	for _, o := range optList {
		if o.Index != "" {
			opts.Index = o.Index
		}
	}
	return opts
}

// NewProvider creates a Provider for the BAM file at "path".
func NewProvider(path string, optList ...ProviderOpts) Provider {
	opts := mergeOpts(optList)
	return &BAMProvider{Path: path, Index: opts.Index}
}
