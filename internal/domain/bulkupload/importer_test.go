package bulkupload

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

type MockContentCreator struct {
	CreateFunc func(ctx context.Context, input content.CreateInput, actor string) (*content.Item, error)
	calls      []content.CreateInput
}

func (m *MockContentCreator) Create(ctx context.Context, input content.CreateInput, actor string) (*content.Item, error) {
	m.calls = append(m.calls, input)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input, actor)
	}
	return &content.Item{ID: "id", Title: input.Title}, nil
}

const header = "title,description,category,media_type,url,thumbnail_url,is_featured\n"

func newImporter(creator ContentCreator) *Importer {
	return NewImporter(creator, Options{MaxBytes: 1 << 20, MaxRows: 100}, zerolog.Nop())
}

func TestImportValidRows(t *testing.T) {
	creator := &MockContentCreator{}
	csvData := header +
		"Balayage,Sun-kissed colour,hair,image,https://cdn.example.com/a.jpg,,yes\n" +
		"Gel set,,nails,image,https://cdn.example.com/b.jpg,https://cdn.example.com/b-thumb.jpg,0\n" +
		"Academy tour,,academy,video,https://cdn.example.com/c.mp4,,\n"

	result, err := newImporter(creator).Import(context.Background(), strings.NewReader(csvData), "owner@salon.test")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Inserted)
	assert.Empty(t, result.Errors)
	require.Len(t, creator.calls, 3)
	assert.True(t, creator.calls[0].IsFeatured)
	assert.False(t, creator.calls[1].IsFeatured)
	assert.Equal(t, "video", creator.calls[2].MediaType)
}

func TestImportRejectsMissingTitleOrURL(t *testing.T) {
	creator := &MockContentCreator{}
	csvData := header +
		",no title,hair,image,https://cdn.example.com/a.jpg,,\n" +
		"No url,,hair,image,,,\n" +
		"Good,,hair,image,https://cdn.example.com/ok.jpg,,\n"

	result, err := newImporter(creator).Import(context.Background(), strings.NewReader(csvData), "owner@salon.test")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "title is required")
	assert.Equal(t, 3, result.Errors[1].Row)
	assert.Equal(t, "No url", result.Errors[1].Title)
	assert.Contains(t, result.Errors[1].Message, "url is required")

	require.Len(t, creator.calls, 1)
	assert.Equal(t, "Good", creator.calls[0].Title)
}

func TestImportRejectsBadEnumsWithDescriptiveErrors(t *testing.T) {
	creator := &MockContentCreator{}
	csvData := header +
		"Tattoo,,tattoo,image,https://cdn.example.com/a.jpg,,\n" +
		"Podcast,,hair,audio,https://cdn.example.com/b.mp3,,\n" +
		"Both,,spa,gif,https://cdn.example.com/c.gif,,maybe\n"

	result, err := newImporter(creator).Import(context.Background(), strings.NewReader(csvData), "owner@salon.test")
	require.NoError(t, err)

	assert.Zero(t, result.Inserted)
	assert.Empty(t, creator.calls)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0].Message, `invalid category "tattoo"`)
	assert.Contains(t, result.Errors[0].Message, "lashes_brows")
	assert.Contains(t, result.Errors[1].Message, `invalid media_type "audio"`)
	assert.Contains(t, result.Errors[2].Message, `invalid category "spa"`)
	assert.Contains(t, result.Errors[2].Message, `invalid media_type "gif"`)
	assert.Contains(t, result.Errors[2].Message, `invalid is_featured "maybe"`)
}

func TestImportHeaderIsOrderAndCaseInsensitive(t *testing.T) {
	creator := &MockContentCreator{}
	csvData := "\ufeff URL ,Title,IS_FEATURED,media_type,Category,thumbnail_url,description,placement\n" +
		"https://cdn.example.com/a.jpg,Hero shot,true,image,salon,,,hero\n"

	result, err := newImporter(creator).Import(context.Background(), strings.NewReader(csvData), "owner@salon.test")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, creator.calls, 1)
	assert.Equal(t, "Hero shot", creator.calls[0].Title)
	assert.Equal(t, "hero", creator.calls[0].Placement)
	assert.True(t, creator.calls[0].IsFeatured)
}

func TestImportMissingColumnsAbortsBeforeInsert(t *testing.T) {
	creator := &MockContentCreator{}
	csvData := "title,category,url\nA,hair,https://cdn.example.com/a.jpg\n"

	result, err := newImporter(creator).Import(context.Background(), strings.NewReader(csvData), "owner@salon.test")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "description, media_type, thumbnail_url, is_featured")
	assert.Empty(t, creator.calls)
}

func TestImportContinuesAfterInsertFailure(t *testing.T) {
	creator := &MockContentCreator{
		CreateFunc: func(_ context.Context, input content.CreateInput, _ string) (*content.Item, error) {
			if input.Title == "Second" {
				return nil, errors.New("duplicate key value")
			}
			return &content.Item{Title: input.Title}, nil
		},
	}
	csvData := header +
		"First,,hair,image,https://cdn.example.com/1.jpg,,\n" +
		"Second,,hair,image,https://cdn.example.com/2.jpg,,\n" +
		"Third,,hair,image,https://cdn.example.com/3.jpg,,\n"

	result, err := newImporter(creator).Import(context.Background(), strings.NewReader(csvData), "owner@salon.test")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Inserted)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, RowError{Row: 3, Title: "Second", Message: "insert failed: duplicate key value"}, result.Errors[0])
	assert.Len(t, creator.calls, 3)
}

func TestImportMalformedRowDoesNotAbortBatch(t *testing.T) {
	creator := &MockContentCreator{}
	csvData := header +
		"Good one,,hair,image,https://cdn.example.com/1.jpg,,\n" +
		"The \"glow\" look,,makeup,image,https://cdn.example.com/2.jpg,,\n" +
		"Good two,,nails,image,https://cdn.example.com/3.jpg,,\n"

	result, err := newImporter(creator).Import(context.Background(), strings.NewReader(csvData), "owner@salon.test")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Inserted)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "malformed CSV")
	require.Len(t, creator.calls, 2)
	assert.Equal(t, "Good one", creator.calls[0].Title)
	assert.Equal(t, "Good two", creator.calls[1].Title)
}

func TestImportSkipsBlankLines(t *testing.T) {
	creator := &MockContentCreator{}
	csvData := header + "\n" +
		"A,,hair,image,https://cdn.example.com/a.jpg,,\n" +
		",,,,,,\n" +
		"\n"

	result, err := newImporter(creator).Import(context.Background(), strings.NewReader(csvData), "owner@salon.test")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Inserted)
}

func TestImportEnforcesLimits(t *testing.T) {
	creator := &MockContentCreator{}
	rows := header +
		"A,,hair,image,https://cdn.example.com/a.jpg,,\n" +
		"B,,hair,image,https://cdn.example.com/b.jpg,,\n"

	importer := NewImporter(creator, Options{MaxBytes: 1 << 20, MaxRows: 1}, zerolog.Nop())
	_, err := importer.Import(context.Background(), strings.NewReader(rows), "owner@salon.test")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypePayloadTooLarge))

	importer = NewImporter(creator, Options{MaxBytes: 32, MaxRows: 10}, zerolog.Nop())
	_, err = importer.Import(context.Background(), strings.NewReader(rows), "owner@salon.test")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypePayloadTooLarge))

	assert.Empty(t, creator.calls)
}

func TestImportEmptyFile(t *testing.T) {
	_, err := newImporter(&MockContentCreator{}).Import(context.Background(), strings.NewReader(""), "owner@salon.test")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestTemplateImportsCleanly(t *testing.T) {
	creator := &MockContentCreator{}
	result, err := newImporter(creator).Import(context.Background(), strings.NewReader(string(Template())), "owner@salon.test")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Empty(t, result.Errors)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "YES", "1", " yes "} {
		v, ok := ParseBool(s)
		assert.True(t, ok, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "No", "0", ""} {
		v, ok := ParseBool(s)
		assert.True(t, ok, s)
		assert.False(t, v, s)
	}
	for _, s := range []string{"maybe", "y", "n"} {
		_, ok := ParseBool(s)
		assert.False(t, ok, s)
	}
}
