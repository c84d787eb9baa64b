package bulkupload

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// Column names of the import file.
const (
	ColumnTitle        = "title"
	ColumnDescription  = "description"
	ColumnCategory     = "category"
	ColumnMediaType    = "media_type"
	ColumnURL          = "url"
	ColumnThumbnailURL = "thumbnail_url"
	ColumnIsFeatured   = "is_featured"
	ColumnPlacement    = "placement" // optional
)

// RequiredColumns is the fixed header set every import file must carry.
var RequiredColumns = []string{
	ColumnTitle, ColumnDescription, ColumnCategory, ColumnMediaType,
	ColumnURL, ColumnThumbnailURL, ColumnIsFeatured,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ContentCreator stores one content item.
type ContentCreator interface {
	Create(ctx context.Context, input content.CreateInput, actor string) (*content.Item, error)
}

// RowError describes why one data row was not imported. Row counts the header
// as row 1.
type RowError struct {
	Row     int    `json:"row"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// Result summarizes an import run.
type Result struct {
	Total    int        `json:"total"`
	Inserted int        `json:"inserted"`
	Errors   []RowError `json:"errors"`
}

// Options bounds the size of an import.
type Options struct {
	MaxBytes int64
	MaxRows  int
}

// Importer validates CSV rows and creates content items one at a time.
type Importer struct {
	creator ContentCreator
	opts    Options
	log     zerolog.Logger
}

// NewImporter creates an importer that writes through creator.
func NewImporter(creator ContentCreator, opts Options, log zerolog.Logger) *Importer {
	return &Importer{
		creator: creator,
		opts:    opts,
		log:     log.With().Str("component", "bulk-importer").Logger(),
	}
}

type parsedRow struct {
	row    int
	title  string
	input  content.CreateInput
	errors []string
}

// Import reads a CSV document from r. Header problems and size limits fail the
// whole import before anything is written; row problems and insert failures
// are reported per row and the batch continues.
func (i *Importer) Import(ctx context.Context, r io.Reader, actor string) (*Result, error) {
	data, err := i.readLimited(ctx, r)
	if err != nil {
		return nil, err
	}

	rows, err := i.parse(ctx, data)
	if err != nil {
		return nil, err
	}

	result := &Result{Total: len(rows), Errors: []RowError{}}
	for _, row := range rows {
		if len(row.errors) > 0 {
			result.Errors = append(result.Errors, RowError{Row: row.row, Title: row.title, Message: strings.Join(row.errors, "; ")})
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, RowError{Row: row.row, Title: row.title, Message: "import cancelled: " + err.Error()})
			continue
		}
		if _, err := i.creator.Create(ctx, row.input, actor); err != nil {
			i.log.Warn().Err(err).Int("row", row.row).Msg("insert failed")
			result.Errors = append(result.Errors, RowError{Row: row.row, Title: row.title, Message: insertMessage(err)})
			continue
		}
		result.Inserted++
	}

	i.log.Info().
		Int("total", result.Total).
		Int("inserted", result.Inserted).
		Int("failed", len(result.Errors)).
		Str("actor", actor).
		Msg("bulk import finished")
	return result, nil
}

// MaxBytes is the largest document Import accepts; zero means unlimited.
func (i *Importer) MaxBytes() int64 {
	return i.opts.MaxBytes
}

func (i *Importer) readLimited(ctx context.Context, r io.Reader) ([]byte, error) {
	if i.opts.MaxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "read import file", err, "e1c37a52-9b04-4d6e-8f21-3a5c7d9b0e64")
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, i.opts.MaxBytes+1))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "read import file", err, "e1c37a52-9b04-4d6e-8f21-3a5c7d9b0e64")
	}
	if int64(len(data)) > i.opts.MaxBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypePayloadTooLarge,
			fmt.Sprintf("import file exceeds %d bytes", i.opts.MaxBytes), nil, "7f2d9e18-4a6b-4c03-b5e7-1d8f0a2c6b93")
	}
	return data, nil
}

func (i *Importer) parse(ctx context.Context, data []byte) ([]parsedRow, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "import file is empty", nil, "0c4b8e27-6d19-4a35-9f70-2e5b1c8d3a46")
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "malformed CSV header", err, "b83f5a61-2c7e-4d09-8a14-6f0e9d2b7c35")
	}

	columns, err := indexHeader(ctx, header)
	if err != nil {
		return nil, err
	}

	var rows []parsedRow
	rowNumber := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.Reader resumes at the next record after a ParseError.
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
					"read import file", err, "4a9e6c03-7b18-4f52-9d3e-8c1a0b5f2e77")
			}
			if err := i.checkRowLimit(ctx, len(rows)); err != nil {
				return nil, err
			}
			rowNumber = parseErr.StartLine
			rows = append(rows, parsedRow{row: rowNumber, errors: []string{"malformed CSV: " + parseErr.Err.Error()}})
			continue
		}
		rowNumber, _ = reader.FieldPos(0)
		if isBlank(record) {
			continue
		}

		if err := i.checkRowLimit(ctx, len(rows)); err != nil {
			return nil, err
		}
		rows = append(rows, parseRow(rowNumber, record, columns))
	}

	return rows, nil
}

func (i *Importer) checkRowLimit(ctx context.Context, count int) error {
	if i.opts.MaxRows > 0 && count >= i.opts.MaxRows {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypePayloadTooLarge,
			fmt.Sprintf("import file has more than %d rows", i.opts.MaxRows), nil, "d6a2f0b9-3e85-4c17-a9d4-5b7e1c0f8a23")
	}
	return nil
}

func indexHeader(ctx context.Context, header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := columns[key]; !dup {
			columns[key] = idx
		}
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"missing required columns: "+strings.Join(missing, ", "), nil, "8e5b1d74-0f3a-4b69-b2c8-9a6d4e1f7c02",
			map[string]any{"missing_columns": missing})
	}
	return columns, nil
}

func parseRow(rowNumber int, record []string, columns map[string]int) parsedRow {
	get := func(column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := parsedRow{row: rowNumber, title: get(ColumnTitle)}

	_, problems := content.Check(content.Fields{
		Title:        get(ColumnTitle),
		Description:  get(ColumnDescription),
		Category:     get(ColumnCategory),
		MediaType:    get(ColumnMediaType),
		URL:          get(ColumnURL),
		ThumbnailURL: get(ColumnThumbnailURL),
		Placement:    get(ColumnPlacement),
	})

	featured, ok := ParseBool(get(ColumnIsFeatured))
	if !ok {
		problems = append(problems, fmt.Sprintf("invalid is_featured %q (allowed: true, false, yes, no, 1, 0)", get(ColumnIsFeatured)))
	}

	row.errors = problems
	row.input = content.CreateInput{
		Title:        get(ColumnTitle),
		Description:  get(ColumnDescription),
		Category:     get(ColumnCategory),
		MediaType:    get(ColumnMediaType),
		URL:          get(ColumnURL),
		ThumbnailURL: get(ColumnThumbnailURL),
		IsFeatured:   featured,
		Placement:    get(ColumnPlacement),
	}
	return row
}

// ParseBool accepts true/false, yes/no and 1/0 in any case. Empty means false.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0", "":
		return false, true
	default:
		return false, false
	}
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func insertMessage(err error) string {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return "insert failed: " + platformErr.Message
	}
	return "insert failed: " + err.Error()
}

// Template returns a CSV document with the header line and one example row.
func Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(RequiredColumns)
	_ = w.Write([]string{
		"Soft glam bridal look",
		"Trial and wedding-day makeup",
		string(content.CategoryBridal),
		string(content.MediaTypeImage),
		"https://cdn.example.com/gallery/bridal-soft-glam.jpg",
		"https://cdn.example.com/gallery/bridal-soft-glam-thumb.jpg",
		"yes",
	})
	w.Flush()
	return buf.Bytes()
}
