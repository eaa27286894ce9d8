package export

import (
	"bytes"
	"context"
	"fmt"
	"image"

	// Register decoders for the avatar formats Canvas serves.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/XiongPengNUS/canvasplus/internal/app/metrics"
	"github.com/XiongPengNUS/canvasplus/internal/app/models"
	"github.com/XiongPengNUS/canvasplus/internal/pkg/apperrors"
)

const sheetName = "Sheet1"

// Options tune the spreadsheet layout. Defaults produce the standard
// report: avatars scaled into a 100x110 footprint on 80-unit rows.
type Options struct {
	// AvatarWidth and AvatarHeight are the target display footprint;
	// scale factors are computed per axis, so scaling is non-uniform.
	AvatarWidth  float64
	AvatarHeight float64
	// RowHeight is applied to every row carrying an embedded image.
	RowHeight float64
	// Concurrency bounds parallel image fetches.
	Concurrency int
}

// DefaultOptions returns the standard report layout.
func DefaultOptions() Options {
	return Options{
		AvatarWidth:  100,
		AvatarHeight: 110,
		RowHeight:    80,
		Concurrency:  4,
	}
}

// Result is a finished export: the complete workbook plus diagnostics
// for any rows whose image had to be skipped.
type Result struct {
	Data []byte
	// SkippedImages names the row owners whose avatar could not be
	// fetched or decoded. Their rows are intact, only the image is
	// missing.
	SkippedImages []string
}

// Exporter serializes ExportTables into xlsx workbooks.
type Exporter struct {
	fetcher ImageFetcher
	opts    Options
	logger  zerolog.Logger
}

// NewExporter creates an exporter. fetcher may be nil when no table
// with avatar columns will be exported.
func NewExporter(fetcher ImageFetcher, opts Options, logger zerolog.Logger) *Exporter {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Exporter{fetcher: fetcher, opts: opts, logger: logger}
}

// fetchedImage is one avatar ready for embedding, or a marker that the
// row keeps no image.
type fetchedImage struct {
	data   []byte
	ext    string
	scaleX float64
	scaleY float64
	ok     bool
}

// Export writes the table to a workbook and returns the finished bytes.
// The blob is returned only after every row and image is written; a
// hard failure yields no partial output.
func (e *Exporter) Export(ctx context.Context, table *models.ExportTable) (*Result, error) {
	if table == nil || len(table.Columns) == 0 {
		return nil, fmt.Errorf("%w: table has no columns", apperrors.ErrValidationFailed)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrExportFailed, err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, fmt.Errorf("%w: writing header: %v", apperrors.ErrExportFailed, err)
		}
	}

	avatarCol := table.ColumnIndex(string(models.InfoAvatar))

	result := &Result{}
	var images []fetchedImage
	if avatarCol >= 0 {
		images = e.fetchImages(ctx, table, result)
	}

	for r, row := range table.Rows {
		for c, cellValue := range row {
			if c == avatarCol && cellValue.Avatar != nil {
				// The image replaces the cell; the URL is not written.
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrExportFailed, err)
			}
			if err := f.SetCellValue(sheetName, cell, cellValue.Text); err != nil {
				return nil, fmt.Errorf("%w: writing row %d: %v", apperrors.ErrExportFailed, r, err)
			}
		}
	}

	// The first column always renders with two-decimal formatting,
	// whatever it holds. Consumers rely on it for numeric first
	// columns, so it is applied positionally.
	styleID, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("%w: creating number format: %v", apperrors.ErrExportFailed, err)
	}
	if err := f.SetColStyle(sheetName, "A", styleID); err != nil {
		return nil, fmt.Errorf("%w: applying number format: %v", apperrors.ErrExportFailed, err)
	}

	if avatarCol >= 0 {
		if err := e.embedImages(f, table, avatarCol, images); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: serializing workbook: %v", apperrors.ErrExportFailed, err)
	}
	result.Data = buf.Bytes()
	return result, nil
}

// fetchImages downloads and probes every row's avatar under a bounded
// errgroup. Results land in a row-indexed slice, so embedding order is
// row order regardless of completion order. Failures mark the slot and
// carry a diagnostic instead of failing the export.
func (e *Exporter) fetchImages(ctx context.Context, table *models.ExportTable, result *Result) []fetchedImage {
	images := make([]fetchedImage, len(table.Rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, row := range table.Rows {
		avatar := rowAvatar(row)
		if avatar == nil || avatar.URL == "" {
			continue
		}
		i, url := i, avatar.URL
		g.Go(func() error {
			img, err := e.fetchOne(gctx, url)
			if err != nil {
				e.logger.Warn().Err(err).Str("url", url).Msg("Skipping avatar image")
				metrics.AvatarFetchFailures.Inc()
				return nil
			}
			images[i] = img
			return nil
		})
	}
	// Workers only ever return nil; Wait is for completion.
	_ = g.Wait()

	for i, img := range images {
		if img.ok {
			continue
		}
		if avatar := rowAvatar(table.Rows[i]); avatar != nil && avatar.URL != "" {
			result.SkippedImages = append(result.SkippedImages, rowOwner(table.Rows[i]))
		}
	}
	return images
}

// fetchOne downloads one image and computes its per-axis scale factors
// from the native pixel dimensions.
func (e *Exporter) fetchOne(ctx context.Context, url string) (fetchedImage, error) {
	if e.fetcher == nil {
		return fetchedImage{}, fmt.Errorf("no image fetcher configured")
	}
	data, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return fetchedImage{}, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fetchedImage{}, fmt.Errorf("decoding image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fetchedImage{}, fmt.Errorf("image has no dimensions")
	}

	return fetchedImage{
		data: data,
		ext:  "." + format,
		// Each axis scales independently toward the target footprint.
		scaleX: e.opts.AvatarWidth / float64(cfg.Width),
		scaleY: e.opts.AvatarHeight / float64(cfg.Height),
		ok:     true,
	}, nil
}

// embedImages anchors each fetched image at the avatar column of its
// row and fixes the row height so the image is not clipped.
func (e *Exporter) embedImages(f *excelize.File, table *models.ExportTable, avatarCol int, images []fetchedImage) error {
	for i, img := range images {
		if !img.ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(avatarCol+1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrExportFailed, err)
		}
		pic := &excelize.Picture{
			Extension: img.ext,
			File:      img.data,
			Format: &excelize.GraphicOptions{
				ScaleX: img.scaleX,
				ScaleY: img.scaleY,
			},
		}
		if err := f.AddPictureFromBytes(sheetName, cell, pic); err != nil {
			return fmt.Errorf("%w: embedding image at row %d: %v", apperrors.ErrExportFailed, i, err)
		}
		if err := f.SetRowHeight(sheetName, i+2, e.opts.RowHeight); err != nil {
			return fmt.Errorf("%w: sizing row %d: %v", apperrors.ErrExportFailed, i, err)
		}
	}
	return nil
}

func rowAvatar(row []models.Cell) *models.AvatarRef {
	for _, c := range row {
		if c.Avatar != nil {
			return c.Avatar
		}
	}
	return nil
}

// rowOwner names a row for diagnostics; the first column is Name on
// roster tables.
func rowOwner(row []models.Cell) string {
	if len(row) > 0 {
		return row[0].Text
	}
	return "(unknown)"
}
