package tiling_test

import (
	"math/rand"
	"testing"

	"github.com/cellqc/nucfrac/tiling"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func newRefs(t *testing.T, lengths ...int) []*sam.Reference {
	refs := make([]*sam.Reference, len(lengths))
	for i, l := range lengths {
		ref, err := sam.NewReference("chr"+string(rune('1'+i)), "", "", l, nil, nil)
		assert.NoError(t, err)
		refs[i] = ref
	}
	// NewReference leaves ID as -1 until the reference joins a header.
	_, err := sam.NewHeader(nil, refs)
	assert.NoError(t, err)
	return refs
}

// checkCoverage verifies that tiles cover every base of every contig exactly
// once, in contig order then position order.
func checkCoverage(t *testing.T, refs []*sam.Reference, tiles []tiling.Tile) {
	tiling.ValidateTileList(tiles)
	var wantTotal, gotTotal int
	for _, ref := range refs {
		wantTotal += ref.Len()
	}
	for i := range tiles {
		gotTotal += tiles[i].Len()
	}
	expect.EQ(t, gotTotal, wantTotal)
	prev := -1
	for _, tile := range tiles {
		if tile.Ref.ID() < prev {
			t.Errorf("tiles out of contig order: %v", tile.String())
		}
		prev = tile.Ref.ID()
	}
}

func TestGenerateTilesSingleContig(t *testing.T) {
	refs := newRefs(t, 100)
	tiles, err := tiling.GenerateTiles(refs, 4)
	assert.NoError(t, err)
	assert.EQ(t, len(tiles), 4)
	expect.EQ(t, tiles[0], tiling.Tile{Ref: refs[0], Start: 0, End: 25, TileIdx: 0})
	expect.EQ(t, tiles[1], tiling.Tile{Ref: refs[0], Start: 25, End: 50, TileIdx: 1})
	expect.EQ(t, tiles[2], tiling.Tile{Ref: refs[0], Start: 50, End: 75, TileIdx: 2})
	expect.EQ(t, tiles[3], tiling.Tile{Ref: refs[0], Start: 75, End: 100, TileIdx: 3})
}

func TestGenerateTilesRemainder(t *testing.T) {
	refs := newRefs(t, 103)
	tiles, err := tiling.GenerateTiles(refs, 4)
	assert.NoError(t, err)
	assert.EQ(t, len(tiles), 4)
	// The last tile of the contig absorbs the division remainder.
	expect.EQ(t, tiles[3], tiling.Tile{Ref: refs[0], Start: 75, End: 103, TileIdx: 3})
	checkCoverage(t, refs, tiles)
}

func TestGenerateTilesMultiContig(t *testing.T) {
	refs := newRefs(t, 100, 300)
	tiles, err := tiling.GenerateTiles(refs, 4)
	assert.NoError(t, err)
	assert.EQ(t, len(tiles), 4)
	// Tiles are apportioned by contig length: one to chr1, three to chr2.
	expect.EQ(t, tiles[0], tiling.Tile{Ref: refs[0], Start: 0, End: 100, TileIdx: 0})
	expect.EQ(t, tiles[1], tiling.Tile{Ref: refs[1], Start: 0, End: 100, TileIdx: 1})
	expect.EQ(t, tiles[2], tiling.Tile{Ref: refs[1], Start: 100, End: 200, TileIdx: 2})
	expect.EQ(t, tiles[3], tiling.Tile{Ref: refs[1], Start: 200, End: 300, TileIdx: 3})
	checkCoverage(t, refs, tiles)
}

func TestGenerateTilesFewerThanContigs(t *testing.T) {
	// A tile never straddles contigs, so each contig still gets one tile.
	refs := newRefs(t, 50, 60, 70)
	tiles, err := tiling.GenerateTiles(refs, 1)
	assert.NoError(t, err)
	assert.EQ(t, len(tiles), 3)
	checkCoverage(t, refs, tiles)
}

func TestGenerateTilesSkipsEmptyContig(t *testing.T) {
	refs := newRefs(t, 50, 0, 70)
	tiles, err := tiling.GenerateTiles(refs, 5)
	assert.NoError(t, err)
	for i := range tiles {
		expect.NEQ(t, tiles[i].Ref.Name(), "chr2")
	}
	checkCoverage(t, refs, tiles)
}

func TestGenerateTilesTinyContig(t *testing.T) {
	// A contig never receives more tiles than it has bases.
	refs := newRefs(t, 2)
	tiles, err := tiling.GenerateTiles(refs, 10)
	assert.NoError(t, err)
	assert.EQ(t, len(tiles), 2)
	checkCoverage(t, refs, tiles)
}

func TestGenerateTilesErrors(t *testing.T) {
	refs := newRefs(t, 100)
	_, err := tiling.GenerateTiles(refs, 0)
	expect.EQ(t, err, tiling.ErrInvalidTileCount)
	_, err = tiling.GenerateTiles(refs, -3)
	expect.EQ(t, err, tiling.ErrInvalidTileCount)
	_, err = tiling.GenerateTiles(nil, 1)
	expect.EQ(t, err, tiling.ErrEmptyReference)
	empty := newRefs(t, 0, 0)
	_, err = tiling.GenerateTiles(empty, 1)
	expect.EQ(t, err, tiling.ErrEmptyReference)
}

func TestGenerateTilesRandomized(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	for iter := 0; iter < 100; iter++ {
		nRef := 1 + rnd.Intn(5)
		lengths := make([]int, nRef)
		for i := range lengths {
			lengths[i] = 1 + rnd.Intn(10000)
		}
		refs := newRefs(t, lengths...)
		n := 1 + rnd.Intn(40)
		tiles, err := tiling.GenerateTiles(refs, n)
		assert.NoError(t, err)
		checkCoverage(t, refs, tiles)

		// Same inputs must yield the same tiles.
		again, err := tiling.GenerateTiles(refs, n)
		assert.NoError(t, err)
		assert.EQ(t, len(again), len(tiles))
		for i := range tiles {
			expect.EQ(t, again[i], tiles[i])
		}
	}
}

func TestRecordInTile(t *testing.T) {
	refs := newRefs(t, 100, 100)
	tile := tiling.Tile{Ref: refs[0], Start: 20, End: 60}
	rec := &sam.Record{Ref: refs[0], Pos: 20}
	expect.True(t, tile.RecordInTile(rec))
	rec.Pos = 59
	expect.True(t, tile.RecordInTile(rec))
	rec.Pos = 60
	expect.False(t, tile.RecordInTile(rec))
	rec.Pos = 19
	expect.False(t, tile.RecordInTile(rec))
	rec = &sam.Record{Ref: refs[1], Pos: 30}
	expect.False(t, tile.RecordInTile(rec))
}
