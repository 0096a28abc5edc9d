// Package tiling partitions a reference genome, as described by a BAM or PAM
// header, into contiguous, non-overlapping genomic intervals (Tiles) that can
// be scanned in parallel and whose results can be merged without
// double-counting.
package tiling

import (
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
)

var (
	// ErrInvalidTileCount is returned when the requested tile count is < 1.
	ErrInvalidTileCount = errors.New("tile count must be at least 1")
	// ErrEmptyReference is returned when the header describes no contig with
	// nonzero length.
	ErrEmptyReference = errors.New("reference contains no contigs with nonzero length")
)

// Tile represents one genomic interval. <Ref,Start> and <Ref,End> form a
// half-open, 0-based interval; a record belongs to the tile iff its alignment
// start position falls within [Start, End). A tile never straddles two
// contigs.
//
// Tiles are ordered according to the reference order of the input file.
// TileIdx is an index into that ordering: the first tile has index 0, and
// subsequent tiles increment TileIdx by one each.
type Tile struct {
	Ref   *sam.Reference
	Start int
	End   int

	TileIdx int
}

// Len returns the number of reference bases the tile covers.
func (t *Tile) Len() int {
	return t.End - t.Start
}

// RecordInTile returns true if r's alignment start position is in t. Each
// mapped record is in exactly one tile of a tile list, no matter how far its
// footprint extends past the tile end.
func (t *Tile) RecordInTile(r *sam.Record) bool {
	return r.Ref.ID() == t.Ref.ID() && r.Pos >= t.Start && r.Pos < t.End
}

// String returns a debug string for t.
func (t *Tile) String() string {
	return fmt.Sprintf("%d:%s[%d]:%d-%d", t.TileIdx, t.Ref.Name(), t.Ref.ID(), t.Start, t.End)
}

// GenerateTiles partitions the given references into tiles. Every contig with
// nonzero length contributes at least one tile, so the resulting list has
// max(n, number of contigs) tiles, apportioned across contigs by length. The
// final tile of each contig absorbs the remainder of the integer division, so
// the union of the tiles covers every base of every contig exactly once.
//
// The result is deterministic for a given (references, n) pair. Zero-length
// contigs are skipped.
func GenerateTiles(refs []*sam.Reference, n int) ([]Tile, error) {
	if n < 1 {
		return nil, ErrInvalidTileCount
	}
	var total int64
	nonzero := make([]*sam.Reference, 0, len(refs))
	for _, ref := range refs {
		if ref.Len() > 0 {
			nonzero = append(nonzero, ref)
			total += int64(ref.Len())
		}
	}
	if len(nonzero) == 0 {
		return nil, ErrEmptyReference
	}
	counts := apportionTiles(nonzero, total, n)
	var tiles []Tile
	for i, ref := range nonzero {
		c := counts[i]
		size := ref.Len() / c
		start := 0
		for j := 0; j < c; j++ {
			end := start + size
			if j == c-1 {
				end = ref.Len()
			}
			tiles = append(tiles, Tile{
				Ref:     ref,
				Start:   start,
				End:     end,
				TileIdx: len(tiles),
			})
			start = end
		}
	}
	ValidateTileList(tiles)
	return tiles, nil
}

// apportionTiles decides how many tiles each contig receives: the floor of the
// contig's proportional share of n, with leftover tiles distributed by a
// largest-remainder rule, ties broken toward the earlier contig. Contigs whose
// share rounds to zero still receive one tile, and a contig never receives
// more tiles than it has bases.
func apportionTiles(refs []*sam.Reference, total int64, n int) []int {
	counts := make([]int, len(refs))
	type remainder struct {
		idx  int
		frac int64
	}
	rems := make([]remainder, len(refs))
	assigned := 0
	for i, ref := range refs {
		c := int(int64(n) * int64(ref.Len()) / total)
		if c > ref.Len() {
			c = ref.Len()
		}
		counts[i] = c
		assigned += c
		rems[i] = remainder{idx: i, frac: int64(n) * int64(ref.Len()) % total}
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for _, r := range rems {
		if assigned >= n {
			break
		}
		if counts[r.idx] < refs[r.idx].Len() {
			counts[r.idx]++
			assigned++
		}
	}
	for i := range counts {
		if counts[i] == 0 {
			counts[i] = 1
		}
	}
	return counts
}

// ValidateTileList validates that tiles has sensible values: in-order, no gap,
// no overlap, full coverage of every contig it touches. Exposed only for
// testing.
func ValidateTileList(tiles []Tile) {
	var prevRef *sam.Reference
	for i, tile := range tiles {
		if tile.Start >= tile.End {
			log.Panicf("Tile start must precede end for ref %s: %d, %d", tile.Ref.Name(), tile.Start, tile.End)
		}
		if tile.TileIdx != i {
			log.Panicf("Tile index out of sequence at %d: %+v", i, tile)
		}
		if i == 0 || tile.Ref != prevRef {
			prevRef = tile.Ref
			if tile.Start != 0 {
				log.Panicf("First tile of ref %s should start at 0, not %d", tile.Ref.Name(), tile.Start)
			}
		} else if tile.Start != tiles[i-1].End {
			log.Panicf("Tile gap for ref %s between %d and %d", tile.Ref.Name(), tiles[i-1].End, tile.Start)
		}
		if (i == len(tiles)-1 || tiles[i+1].Ref != tile.Ref) && tile.End != tile.Ref.Len() {
			log.Panicf("Last tile of %s should end at reference end: %d, %d", tile.Ref.Name(), tile.End, tile.Ref.Len())
		}
	}
}
