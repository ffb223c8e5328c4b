package csvio

import (
	"testing"
	"time"

	"dropflow-admin/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	text := "name,sku,sellingPrice\nWidget,W-1,9.99\nGadget,G-2,14.50"

	header, rows, err := Parse(text, []string{"name", "sku"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "sku", "sellingPrice"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, "Widget", rows[0]["name"])
	assert.Equal(t, "14.50", rows[1]["sellingPrice"])
}

func TestParseQuotedFields(t *testing.T) {
	text := `name,description
"Widget, Large","A ""big"" widget"`

	_, rows, err := Parse(text, []string{"name"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Widget, Large", rows[0]["name"])
	assert.Equal(t, `A "big" widget`, rows[0]["description"])
}

func TestParseSkipsBlankLines(t *testing.T) {
	text := "name,sku\nWidget,W-1\n\n\nGadget,G-2\n"

	_, rows, err := Parse(text, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParsePadsShortRows(t *testing.T) {
	text := "name,sku,category\nWidget,W-1"

	_, rows, err := Parse(text, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["category"])
}

func TestParseWindowsLineEndings(t *testing.T) {
	text := "name,sku\r\nWidget,W-1\r\n"

	_, rows, err := Parse(text, []string{"sku"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "W-1", rows[0]["sku"])
}

func TestParseHeaderOnly(t *testing.T) {
	_, _, err := Parse("name,sku", nil)
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeFormat, appErr.Code)
}

func TestParseMissingRequiredField(t *testing.T) {
	_, _, err := Parse("name,sku\nWidget,W-1", []string{"sellingPrice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sellingPrice")
}

func TestMarshalEscapes(t *testing.T) {
	out := Marshal([]string{"name", "note"}, [][]string{
		{"Widget, Large", `say "hi"`},
		{"Plain", "nothing"},
	})

	assert.Equal(t, "name,note\n\"Widget, Large\",\"say \"\"hi\"\"\"\nPlain,nothing", out)
}

func TestMarshalParseRoundTrip(t *testing.T) {
	headers := []string{"name", "note"}
	records := [][]string{{"Widget, Large", `a "quoted" note`}}

	_, rows, err := Parse(Marshal(headers, records), headers)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Widget, Large", rows[0]["name"])
	assert.Equal(t, `a "quoted" note`, rows[0]["note"])
}

func TestJoinSplitList(t *testing.T) {
	assert.Equal(t, "a; b; c", JoinList([]string{"a", "b", "c"}))
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a; b; c"))
	assert.Nil(t, SplitList("  "))
	assert.Equal(t, []string{"a"}, SplitList("a;"))
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 3, 9, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "products_2025-03-09.csv", Filename("products", now))
}
