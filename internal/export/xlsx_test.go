package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/XiongPengNUS/canvasplus/internal/app/models"
)

// pngBytes renders a solid image of the given pixel dimensions.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 40, G: 90, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeFetcher serves canned bytes by URL; unknown URLs fail.
type fakeFetcher struct {
	images map[string][]byte
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	data, ok := f.images[url]
	if !ok {
		return nil, fmt.Errorf("no image for %s", url)
	}
	return data, nil
}

func rosterTable() *models.ExportTable {
	return &models.ExportTable{
		Columns: []string{"Name", "Avatar", "Student Number"},
		Rows: [][]models.Cell{
			{models.TextCell("A"), models.AvatarCell("https://img.example/a.png"), models.TextCell("A001")},
			{models.TextCell("B"), models.AvatarCell("https://img.example/b.png"), models.TextCell("A002")},
		},
	}
}

func newTestExporter(t *testing.T, fetcher ImageFetcher) *Exporter {
	t.Helper()
	return NewExporter(fetcher, DefaultOptions(), zerolog.Nop())
}

func TestExportHeaderRoundTrip(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"https://img.example/a.png": pngBytes(t, 50, 55),
		"https://img.example/b.png": pngBytes(t, 50, 55),
	}}
	exporter := newTestExporter(t, fetcher)

	result, err := exporter.Export(context.Background(), rosterTable())
	require.NoError(t, err)
	require.Empty(t, result.SkippedImages)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, []string{"Name", "Avatar", "Student Number"}, rows[0])
}

func TestExportRowContent(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"https://img.example/a.png": pngBytes(t, 50, 55),
		"https://img.example/b.png": pngBytes(t, 50, 55),
	}}
	exporter := newTestExporter(t, fetcher)

	result, err := exporter.Export(context.Background(), rosterTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	assert.Equal(t, "A", name)

	// The image replaces the avatar cell; no URL text is written
	avatarCell, err := f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Empty(t, avatarCell)

	number, err := f.GetCellValue("Sheet1", "C3")
	require.NoError(t, err)
	assert.Equal(t, "A002", number)
}

func TestExportEmbedsImagesAtRowPositions(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"https://img.example/a.png": pngBytes(t, 50, 55),
		"https://img.example/b.png": pngBytes(t, 50, 55),
	}}
	exporter := newTestExporter(t, fetcher)

	result, err := exporter.Export(context.Background(), rosterTable())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	for _, cell := range []string{"B2", "B3"} {
		pics, err := f.GetPictures("Sheet1", cell)
		require.NoError(t, err)
		assert.Len(t, pics, 1, "expected one picture at %s", cell)
	}

	for _, row := range []int{2, 3} {
		height, err := f.GetRowHeight("Sheet1", row)
		require.NoError(t, err)
		assert.Equal(t, 80.0, height)
	}
}

func TestExportFirstColumnNumberFormat(t *testing.T) {
	exporter := NewExporter(nil, DefaultOptions(), zerolog.Nop())

	table := &models.ExportTable{
		Columns: []string{"Name", "Student Number"},
		Rows: [][]models.Cell{
			{models.TextCell("A"), models.TextCell("A001")},
		},
	}
	result, err := exporter.Export(context.Background(), table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	// The first column always carries the two-decimal number format,
	// whatever it holds; other columns stay unformatted.
	styleID, err := f.GetColStyle("Sheet1", "A")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.Equal(t, 2, style.NumFmt)

	styleID, err = f.GetColStyle("Sheet1", "B")
	require.NoError(t, err)
	assert.Zero(t, styleID)
}

func TestExportScaleFactorsArePerAxis(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"https://img.example/a.png": pngBytes(t, 200, 55),
	}}
	exporter := newTestExporter(t, fetcher)

	img, err := exporter.fetchOne(context.Background(), "https://img.example/a.png")
	require.NoError(t, err)

	// target/source for each axis independently, not one uniform factor
	assert.InDelta(t, 100.0/200.0, img.scaleX, 1e-9)
	assert.InDelta(t, 110.0/55.0, img.scaleY, 1e-9)
	assert.Equal(t, ".png", img.ext)
}

func TestExportSkipsFailedImagesKeepsRows(t *testing.T) {
	// Only A's avatar resolves; B's fetch fails
	fetcher := &fakeFetcher{images: map[string][]byte{
		"https://img.example/a.png": pngBytes(t, 50, 55),
	}}
	exporter := newTestExporter(t, fetcher)

	result, err := exporter.Export(context.Background(), rosterTable())
	require.NoError(t, err)
	require.Equal(t, []string{"B"}, result.SkippedImages)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	// B's row survives with its text columns intact
	name, err := f.GetCellValue("Sheet1", "A3")
	require.NoError(t, err)
	assert.Equal(t, "B", name)

	pics, err := f.GetPictures("Sheet1", "B3")
	require.NoError(t, err)
	assert.Empty(t, pics)
}

func TestExportUndecodableImageSkipped(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"https://img.example/a.png": []byte("not an image"),
		"https://img.example/b.png": pngBytes(t, 50, 55),
	}}
	exporter := newTestExporter(t, fetcher)

	result, err := exporter.Export(context.Background(), rosterTable())
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, result.SkippedImages)
}

func TestExportIdempotentLayout(t *testing.T) {
	images := map[string][]byte{
		"https://img.example/a.png": pngBytes(t, 50, 55),
		"https://img.example/b.png": pngBytes(t, 80, 90),
	}
	run := func() ([][]string, []float64) {
		exporter := newTestExporter(t, &fakeFetcher{images: images})
		result, err := exporter.Export(context.Background(), rosterTable())
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(result.Data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Sheet1")
		require.NoError(t, err)
		var heights []float64
		for r := 1; r <= len(rows); r++ {
			h, err := f.GetRowHeight("Sheet1", r)
			require.NoError(t, err)
			heights = append(heights, h)
		}
		return rows, heights
	}

	rows1, heights1 := run()
	rows2, heights2 := run()
	assert.Equal(t, rows1, rows2)
	assert.Equal(t, heights1, heights2)
}

func TestExportTableWithoutAvatarsNeedsNoFetcher(t *testing.T) {
	exporter := NewExporter(nil, DefaultOptions(), zerolog.Nop())

	table := &models.ExportTable{
		Columns: []string{"Topic", "Author"},
		Rows: [][]models.Cell{
			{models.TextCell("Week 1"), models.TextCell("A")},
		},
	}
	result, err := exporter.Export(context.Background(), table)
	require.NoError(t, err)
	require.NotEmpty(t, result.Data)
}

func TestExportEmptyTableHasHeaderOnly(t *testing.T) {
	exporter := NewExporter(nil, DefaultOptions(), zerolog.Nop())

	table := &models.ExportTable{Columns: []string{"Topic", "Author", "Student Number", "Posted At"}}
	result, err := exporter.Export(context.Background(), table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Topic", "Author", "Student Number", "Posted At"}, rows[0])
}

func TestExportNilTableFails(t *testing.T) {
	exporter := NewExporter(nil, DefaultOptions(), zerolog.Nop())
	_, err := exporter.Export(context.Background(), nil)
	require.Error(t, err)
}
