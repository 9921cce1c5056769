package jpgis

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// minExtent stands in for a zero width or height; rtreego rejects empty
// rectangles.
const minExtent = 1e-12

// Tile is one decoded document as seen by the index.
type Tile struct {
	Name   string // archive member or file name
	Extent Bounds // geographic coverage
	EPSG   int
	Shape  Shape
	Seq    int // insertion position, set by Insert
}

// TileIndex answers spatial queries over the tiles of one or more archives.
//
// Tiles are kept in insertion order, which for an archive is the order in
// which they are composited. Query results follow the same order.
//
// Example:
//
//	idx := jpgis.BuildTileIndex(dems)
//	tiles := idx.Query(jpgis.Bounds{Left: 139.0, Bottom: 35.0, Right: 139.1, Top: 35.1})
type TileIndex struct {
	tiles []Tile
	rtree *rtreego.Rtree
}

// indexEntry is the rtreego.Spatial stored in the tree.
type indexEntry struct {
	seq  int
	rect rtreego.Rect
}

func (e *indexEntry) Bounds() rtreego.Rect {
	return e.rect
}

// NewTileIndex returns an empty index.
func NewTileIndex() *TileIndex {
	// 2D, min=25 children, max=50 children
	return &TileIndex{rtree: rtreego.NewTree(2, 25, 50)}
}

// BuildTileIndex indexes decoded documents in the order given.
func BuildTileIndex(dems []*DEM) *TileIndex {
	idx := NewTileIndex()
	for _, dem := range dems {
		idx.Insert(Tile{
			Name:   dem.Source,
			Extent: dem.Bounds,
			EPSG:   dem.CRS.EPSG(),
			Shape:  dem.Shape,
		})
	}
	return idx
}

// Insert appends t to the index. t.Seq is overwritten with its position, so
// for an index built by BuildTileIndex it is the position of the document in
// the slice given.
func (idx *TileIndex) Insert(t Tile) {
	t.Seq = len(idx.tiles)
	idx.rtree.Insert(&indexEntry{seq: t.Seq, rect: toRect(t.Extent)})
	idx.tiles = append(idx.tiles, t)
}

// Query returns the tiles whose extent overlaps b, in insertion order.
// Tiles that only touch b along an edge are included.
func (idx *TileIndex) Query(b Bounds) []Tile {
	seqs := idx.search(b)
	result := make([]Tile, 0, len(seqs))
	for _, seq := range seqs {
		if touches(idx.tiles[seq].Extent, b) {
			result = append(result, idx.tiles[seq])
		}
	}
	return result
}

// Overlaps returns every pair of tiles whose interiors overlap, earlier tile
// first. Tiles that share only an edge do not overlap.
func (idx *TileIndex) Overlaps() [][2]Tile {
	var pairs [][2]Tile
	for i, t := range idx.tiles {
		for _, seq := range idx.search(t.Extent) {
			if seq <= i {
				continue
			}
			if t.Extent.Intersects(idx.tiles[seq].Extent) {
				pairs = append(pairs, [2]Tile{t, idx.tiles[seq]})
			}
		}
	}
	return pairs
}

// Count returns the number of tiles in the index.
func (idx *TileIndex) Count() int {
	return len(idx.tiles)
}

// Extent returns the union of all tile extents.
func (idx *TileIndex) Extent() Bounds {
	if len(idx.tiles) == 0 {
		return Bounds{}
	}

	bounds := idx.tiles[0].Extent
	for i := 1; i < len(idx.tiles); i++ {
		bounds = bounds.Union(idx.tiles[i].Extent)
	}
	return bounds
}

// All returns all tiles in insertion order.
func (idx *TileIndex) All() []Tile {
	return idx.tiles
}

// search returns the sequence numbers of candidate tiles for b, sorted.
// Candidates are padded by minExtent, so callers filter them exactly.
func (idx *TileIndex) search(b Bounds) []int {
	padded := Bounds{
		Left:   b.Left - minExtent,
		Bottom: b.Bottom - minExtent,
		Right:  b.Right + minExtent,
		Top:    b.Top + minExtent,
	}
	spatials := idx.rtree.SearchIntersect(toRect(padded))

	seqs := make([]int, len(spatials))
	for i, s := range spatials {
		seqs[i] = s.(*indexEntry).seq
	}
	sort.Ints(seqs)
	return seqs
}

// touches reports whether a and b overlap or share an edge or corner.
func touches(a, b Bounds) bool {
	return a.Left <= b.Right && b.Left <= a.Right &&
		a.Bottom <= b.Top && b.Bottom <= a.Top
}

func toRect(b Bounds) rtreego.Rect {
	point := rtreego.Point{b.Left, b.Bottom}
	lengths := []float64{
		max(b.Right-b.Left, minExtent),
		max(b.Top-b.Bottom, minExtent),
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}
