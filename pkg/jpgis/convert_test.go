package jpgis

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/beetlebugorg/jpgisdem/internal/demtest"
	"github.com/beetlebugorg/jpgisdem/internal/raster"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// testOptions keeps scratch directories under a per-test directory so tests
// can check they are cleaned up.
func testOptions(t *testing.T) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.ScratchDir = dir
	return opts, dir
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(entries), "leftover entries in %s", dir)
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// convertToFile converts src and reads the result back.
func convertToFile(t *testing.T, src []byte, opts Options) ([]float32, *RasterInfo, error) {
	t.Helper()
	dir := t.TempDir()
	in := writeFile(t, dir, "in", src)
	out := filepath.Join(dir, "out.tif")
	if err := ConvertFile(in, out, opts); err != nil {
		return nil, nil, err
	}
	data, info, err := raster.ReadBand(out)
	assert.NoError(t, err)
	return data, info, nil
}

func isNaN(v float32) bool { return math.IsNaN(float64(v)) }

func TestConvertSingleMemberMatchesXML(t *testing.T) {
	opts, scratchDir := testOptions(t)
	doc := demtest.Default().XML()

	var direct bytes.Buffer
	assert.NoError(t, Convert(bytes.NewReader([]byte(doc)), &direct, opts))

	var zipped bytes.Buffer
	archive := demtest.Zip(demtest.Member{Name: "FG-GML-5339-46-11-DEM5A-20161001.xml", Body: doc})
	assert.NoError(t, Convert(bytes.NewReader(archive), &zipped, opts))

	assert.True(t, direct.Len() > 0)
	assert.True(t, bytes.Equal(direct.Bytes(), zipped.Bytes()), "single-member archive output differs from direct output")

	var rasterized bytes.Buffer
	assert.NoError(t, Rasterize(bytes.NewReader([]byte(doc)), &rasterized, opts))
	assert.True(t, bytes.Equal(direct.Bytes(), rasterized.Bytes()))

	assertEmptyDir(t, scratchDir)
}

func TestConvertDeterministic(t *testing.T) {
	opts, _ := testOptions(t)
	doc := []byte(demtest.Default().XML())

	var a, b bytes.Buffer
	assert.NoError(t, Convert(bytes.NewReader(doc), &a, opts))
	assert.NoError(t, Convert(bytes.NewReader(doc), &b, opts))
	assert.True(t, bytes.Equal(a.Bytes(), b.Bytes()))
}

func TestConvertOutputProfile(t *testing.T) {
	opts, _ := testOptions(t)

	data, info, err := convertToFile(t, []byte(demtest.Default().XML()), opts)
	assert.NoError(t, err)

	assert.Equal(t, 4, info.Width)
	assert.Equal(t, 3, info.Height)
	assert.Equal(t, 1, info.Bands)
	assert.Equal(t, 6668, info.EPSG)
	assert.True(t, info.HasNoData)
	assert.Equal(t, NoData, info.NoData)
	assert.Equal(t, info.Width*info.Height, len(data))

	// extent 139.0..139.4 x 35.0..35.3 over 4x3 cells
	left, bottom, right, top := info.Transform.Bounds(info.Width, info.Height)
	assert.True(t, math.Abs(left-139.0) < 1e-9)
	assert.True(t, math.Abs(bottom-35.0) < 1e-9)
	assert.True(t, math.Abs(right-139.4) < 1e-9)
	assert.True(t, math.Abs(top-35.3) < 1e-9)
	assert.True(t, info.Transform[5] < 0)

	assert.Equal(t, float32(1.25), data[0])
	assert.Equal(t, float32(12.25), data[11])
}

func TestConvertShortGridPadded(t *testing.T) {
	opts, _ := testOptions(t)
	d := demtest.Default()
	d.Tuples = demtest.Tuples(1, 5)

	data, _, err := convertToFile(t, []byte(d.XML()), opts)
	assert.NoError(t, err)
	assert.Equal(t, 12, len(data))
	assert.Equal(t, float32(5.25), data[4])
	for _, v := range data[5:] {
		assert.True(t, isNaN(v))
	}
}

func TestConvertOversizeWritesNothing(t *testing.T) {
	opts, scratchDir := testOptions(t)
	d := demtest.Default()
	d.Tuples = demtest.Tuples(1, 13)
	doc := []byte(d.XML())

	var out bytes.Buffer
	err := Convert(bytes.NewReader(doc), &out, opts)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrSizeMismatch))
	assert.Equal(t, 0, out.Len())

	dir := t.TempDir()
	in := writeFile(t, dir, "in.xml", doc)
	dst := filepath.Join(dir, "out.tif")
	err = ConvertFile(in, dst, opts)
	assert.True(t, errors.Is(err, ErrSizeMismatch))
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))

	assertEmptyDir(t, scratchDir)
}

func TestConvertLeadingRun(t *testing.T) {
	opts, _ := testOptions(t)
	d := demtest.Default()
	d.Start = "2 1" // 4*1 + 2 = 6 leading cells
	d.Tuples = demtest.Tuples(1, 6)

	data, _, err := convertToFile(t, []byte(d.XML()), opts)
	assert.NoError(t, err)
	for i := 0; i < 6; i++ {
		assert.True(t, isNaN(data[i]), "cell %d", i)
	}
	assert.Equal(t, float32(1.25), data[6])
	assert.Equal(t, float32(6.25), data[11])
}

func TestConvertSentinelIsNaN(t *testing.T) {
	opts, _ := testOptions(t)
	d := demtest.Default()
	d.Tuples[3] = "データなし,-9999."
	d.Tuples[7] = "地表面,-9999.00"

	data, info, err := convertToFile(t, []byte(d.XML()), opts)
	assert.NoError(t, err)
	assert.True(t, isNaN(data[3]))
	assert.True(t, isNaN(data[7]))
	assert.False(t, isNaN(data[4]))
	for _, v := range data {
		assert.NotEqual(t, float32(NoData), v)
	}
	assert.Equal(t, -9999.0, info.NoData)
}

func TestConvertCRS(t *testing.T) {
	tests := []struct {
		srs  string
		epsg int
		err  error
	}{
		{"fguuid:jgd2011.bl", 6668, nil},
		{"fguuid:jgd2000.bl", 4612, nil},
		{"fguuid:tokyo.bl", 0, ErrSchemaMismatch},
		{"EPSG:6668", 0, ErrSchemaMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.srs, func(t *testing.T) {
			opts, _ := testOptions(t)
			d := demtest.Default()
			d.SRS = tt.srs

			_, info, err := convertToFile(t, []byte(d.XML()), opts)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.epsg, info.EPSG)
		})
	}
}

func TestConvertMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*demtest.DEM)
	}{
		{"axis labels", func(d *demtest.DEM) { d.Labels = "y x" }},
		{"grid origin", func(d *demtest.DEM) { d.Low = "1 0" }},
		{"corner", func(d *demtest.DEM) { d.Lower = "35.0" }},
		{"start point", func(d *demtest.DEM) { d.Start = "a b" }},
		{"sample", func(d *demtest.DEM) { d.Tuples[2] = "地表面,abc" }},
		{"empty samples", func(d *demtest.DEM) { d.Tuples = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, scratchDir := testOptions(t)
			d := demtest.Default()
			tt.mutate(&d)

			var out bytes.Buffer
			err := Convert(bytes.NewReader([]byte(d.XML())), &out, opts)
			assert.True(t, errors.Is(err, ErrMalformedInput), "got %v", err)
			assert.Equal(t, 0, out.Len())
			assertEmptyDir(t, scratchDir)
		})
	}
}

func TestConvertNotXML(t *testing.T) {
	opts, _ := testOptions(t)

	var out bytes.Buffer
	err := Convert(bytes.NewReader([]byte("not xml at all")), &out, opts)
	assert.True(t, errors.Is(err, ErrMalformedInput))

	err = Convert(bytes.NewReader(nil), &out, opts)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestConvertEmptyArchive(t *testing.T) {
	tests := []struct {
		name    string
		archive []byte
	}{
		{"no members", demtest.Zip()},
		{"no xml members", demtest.Zip(demtest.Member{Name: "README.txt", Body: "readme"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _ := testOptions(t)
			var out bytes.Buffer
			err := Convert(bytes.NewReader(tt.archive), &out, opts)
			assert.True(t, errors.Is(err, ErrEmptyArchive), "got %v", err)
			assert.True(t, errors.Is(err, ErrArchive))
			assert.Equal(t, 0, out.Len())
		})
	}
}

func TestConvertCorruptArchive(t *testing.T) {
	opts, _ := testOptions(t)
	var out bytes.Buffer
	err := Convert(bytes.NewReader([]byte("PK\x03\x04 truncated")), &out, opts)
	assert.True(t, errors.Is(err, ErrArchive), "got %v", err)

	var aerr *ArchiveError
	assert.True(t, errors.As(err, &aerr))
}

func TestConvertMixedCRS(t *testing.T) {
	opts, scratchDir := testOptions(t)

	tiles := demtest.Quad(35.0, 139.0, 3, 2)
	tiles[2].SRS = "fguuid:jgd2000.bl"

	members := make([]demtest.Member, len(tiles))
	for i, d := range tiles {
		members[i] = demtest.Member{Name: d.Mesh + ".xml", Body: d.XML()}
	}

	dir := t.TempDir()
	in := writeFile(t, dir, "mixed.zip", demtest.Zip(members...))
	dst := filepath.Join(dir, "out.tif")

	err := ConvertFile(in, dst, opts)
	assert.True(t, errors.Is(err, ErrArchive), "got %v", err)

	var merr *MixedCRSError
	assert.True(t, errors.As(err, &merr))
	assert.Equal(t, []int{6668, 4612}, merr.Codes)

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
	assertEmptyDir(t, scratchDir)
}

func TestConvertQuadComposite(t *testing.T) {
	opts, scratchDir := testOptions(t)
	core, logs := observer.New(zap.InfoLevel)
	opts.Logger = zap.New(core)

	tiles := demtest.Quad(35.0, 139.0, 3, 2)
	members := make([]demtest.Member, len(tiles))
	for i, d := range tiles {
		members[i] = demtest.Member{Name: d.Mesh + ".xml", Body: d.XML()}
	}

	data, info, err := convertToFile(t, demtest.Zip(members...), opts)
	assert.NoError(t, err)

	assert.Equal(t, 6, info.Width)
	assert.Equal(t, 4, info.Height)
	assert.Equal(t, 6668, info.EPSG)
	assert.Equal(t, NoData, info.NoData)
	assert.Equal(t, 24, len(data))

	left, bottom, right, top := info.Transform.Bounds(info.Width, info.Height)
	assert.True(t, math.Abs(left-139.0) < 1e-6)
	assert.True(t, math.Abs(bottom-35.0) < 1e-6)
	assert.True(t, math.Abs(right-139.2) < 1e-6)
	assert.True(t, math.Abs(top-35.2) < 1e-6)

	finite := 0
	for _, v := range data {
		if !isNaN(v) && v != float32(NoData) {
			finite++
		}
	}
	assert.True(t, finite > 0)

	// top-left cell is the first value of the north-west tile (row 1, col 0)
	assert.Equal(t, float32(2000.25), data[0])
	// bottom-right cell is the last value of the south-east tile
	assert.Equal(t, float32(1005.25), data[23])

	assert.Equal(t, 0, logs.FilterMessage("mosaic does not match tile extents").Len())
	merged := logs.FilterMessage("merged archive").All()
	assert.Equal(t, 1, len(merged))
	assert.Equal(t, int64(4), merged[0].ContextMap()["members"])

	assertEmptyDir(t, scratchDir)
}

func TestExtentDrift(t *testing.T) {
	// 6x4 cells of 1/30 degree over 139.0-139.2, 35.0-35.133
	m := &raster.Mosaic{
		Width:     6,
		Height:    4,
		Transform: raster.FromBounds(139.0, 35.0, 139.2, 35.0+4.0/30, 6, 4),
	}

	tests := []struct {
		name string
		want Bounds
		max  float64
	}{
		{"exact", Bounds{Left: 139.0, Bottom: 35.0, Right: 139.2, Top: 35.0 + 4.0/30}, 1e-9},
		{"rounded width", Bounds{Left: 139.0, Bottom: 35.0, Right: 139.21, Top: 35.0 + 4.0/30}, 0.5},
		{"missing column", Bounds{Left: 139.0, Bottom: 35.0, Right: 139.0 + 7.0/30, Top: 35.0 + 4.0/30}, 1.0 + 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, extentDrift(m, tt.want) <= tt.max, "drift %f", extentDrift(m, tt.want))
		})
	}
	assert.True(t, extentDrift(m, Bounds{Left: 138.9, Bottom: 35.0, Right: 139.2, Top: 35.0 + 4.0/30}) > 0.5)
}

func TestConvertArchiveMemberFailureCleansUp(t *testing.T) {
	opts, scratchDir := testOptions(t)

	tiles := demtest.Quad(35.0, 139.0, 3, 2)
	tiles[3].Labels = "y x"
	members := make([]demtest.Member, len(tiles))
	for i, d := range tiles {
		members[i] = demtest.Member{Name: d.Mesh + ".xml", Body: d.XML()}
	}

	var out bytes.Buffer
	err := Convert(bytes.NewReader(demtest.Zip(members...)), &out, opts)
	assert.True(t, errors.Is(err, ErrMalformedInput), "got %v", err)
	assert.Contains(t, err.Error(), tiles[3].Mesh+".xml")
	assert.Equal(t, 0, out.Len())
	assertEmptyDir(t, scratchDir)
}

func TestConvertFileMissingSource(t *testing.T) {
	opts, _ := testOptions(t)
	dir := t.TempDir()
	err := ConvertFile(filepath.Join(dir, "missing.xml"), filepath.Join(dir, "out.tif"), opts)
	assert.True(t, errors.Is(err, ErrIO))

	var rerr *ReadError
	assert.True(t, errors.As(err, &rerr))
}

func TestConvertBadScratchDir(t *testing.T) {
	opts := DefaultOptions()
	opts.ScratchDir = filepath.Join(t.TempDir(), "does", "not", "exist")

	var out bytes.Buffer
	err := Convert(bytes.NewReader([]byte(demtest.Default().XML())), &out, opts)
	assert.True(t, errors.Is(err, ErrIO), "got %v", err)
	assert.Equal(t, 0, out.Len())
}
