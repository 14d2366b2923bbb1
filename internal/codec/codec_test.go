package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotehub/quotehub-backend/internal/domain"
)

func sampleAuthors() []domain.Row {
	return []domain.Row{
		{
			"id":           int64(1),
			"name":         "Oscar Wilde",
			"is_fictional": false,
			"job":          "writer, poet",
			"summary":      "Irish poet & playwright <with sharp wit>",
			"socials": []any{
				map[string]any{"type": "wikipedia", "url": "https://en.wikipedia.org/wiki/Oscar_Wilde"},
			},
			"urls":        []any{"https://example.com/wilde"},
			"views_count": int64(42),
			"created_at":  "2024-01-15T10:00:00Z",
		},
		{
			"id":           int64(2),
			"name":         "Gandalf",
			"is_fictional": true,
			"likes_count":  int64(7),
		},
	}
}

func TestRoundTrip_JSON(t *testing.T) {
	t.Parallel()

	rows := sampleAuthors()
	content, err := Encode(domain.DataTypeAuthors, rows, domain.FormatJSON)
	require.NoError(t, err)

	decoded, err := Decode(content, domain.FormatJSON, domain.DataTypeAuthors)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, "Oscar Wilde", decoded[0].String("name"))
	assert.Equal(t, false, decoded[0].Bool("is_fictional"))
	assert.Equal(t, true, decoded[1].Bool("is_fictional"))

	id, ok := decoded[0].Int64("id")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	views, ok := decoded[0].Int64("views_count")
	require.True(t, ok)
	assert.Equal(t, int64(42), views)

	socials, ok := decoded[0]["socials"].([]any)
	require.True(t, ok)
	require.Len(t, socials, 1)
	entry, ok := socials[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "wikipedia", entry["type"])
}

func TestRoundTrip_CSV(t *testing.T) {
	t.Parallel()

	rows := sampleAuthors()
	content, err := Encode(domain.DataTypeAuthors, rows, domain.FormatCSV)
	require.NoError(t, err)

	// Header is the union of keys in schema order.
	header := strings.SplitN(content, "\n", 2)[0]
	assert.True(t, strings.HasPrefix(header, "id,name,is_fictional"), "header = %q", header)

	decoded, err := Decode(content, domain.FormatCSV, domain.DataTypeAuthors)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, "Oscar Wilde", decoded[0].String("name"))
	assert.Equal(t, "writer, poet", decoded[0].String("job"))
	assert.Equal(t, "Irish poet & playwright <with sharp wit>", decoded[0].String("summary"))

	id, ok := decoded[0].Int64("id")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	// Nested JSON survives the stringify/parse cycle.
	socials, ok := decoded[0]["socials"].([]any)
	require.True(t, ok)
	require.Len(t, socials, 1)

	// Second row never had a summary; it must stay absent, not "".
	assert.False(t, decoded[1].Has("summary"))
	assert.Equal(t, true, decoded[1].Bool("is_fictional"))
}

func TestRoundTrip_XML(t *testing.T) {
	t.Parallel()

	rows := sampleAuthors()
	content, err := Encode(domain.DataTypeAuthors, rows, domain.FormatXML)
	require.NoError(t, err)

	assert.Contains(t, content, "<authors>")
	assert.Contains(t, content, "<author>")
	assert.Contains(t, content, "<![CDATA[Irish poet & playwright <with sharp wit>]]>")
	// Non-free-text fields are entity-escaped.
	assert.Contains(t, content, "<job>writer, poet</job>")

	decoded, err := Decode(content, domain.FormatXML, domain.DataTypeAuthors)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, "Oscar Wilde", decoded[0].String("name"))
	assert.Equal(t, "Irish poet & playwright <with sharp wit>", decoded[0].String("summary"))
	assert.Equal(t, true, decoded[1].Bool("is_fictional"))

	id, ok := decoded[1].Int64("id")
	require.True(t, ok)
	assert.Equal(t, int64(2), id)

	socials, ok := decoded[0]["socials"].([]any)
	require.True(t, ok)
	require.Len(t, socials, 1)
	entry, ok := socials[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Oscar_Wilde", entry["url"])

	urls, ok := decoded[0]["urls"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"https://example.com/wilde"}, urls)
}

func TestEncodeXML_Escaping(t *testing.T) {
	t.Parallel()

	rows := []domain.Row{{"name": `Tom & "Jerry" <'87>`}}
	content, err := Encode(domain.DataTypeTags, rows, domain.FormatXML)
	require.NoError(t, err)

	assert.Contains(t, content, "Tom &amp; &quot;Jerry&quot; &lt;&apos;87&gt;")

	decoded, err := Decode(content, domain.FormatXML, domain.DataTypeTags)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, `Tom & "Jerry" <'87>`, decoded[0].String("name"))
}

func TestRoundTripXML_ObjectField(t *testing.T) {
	t.Parallel()

	rows := []domain.Row{{
		"name":  "annotated",
		"extra": map[string]any{"source": "legacy", "batch": "7"},
	}}
	content, err := Encode(domain.DataTypeTags, rows, domain.FormatXML)
	require.NoError(t, err)

	decoded, err := Decode(content, domain.FormatXML, domain.DataTypeTags)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	extra, ok := decoded[0]["extra"].(map[string]any)
	require.True(t, ok, "object field must decode as a map, got %T", decoded[0]["extra"])
	assert.Equal(t, "legacy", extra["source"])
	assert.Equal(t, "7", extra["batch"])
}

func TestDecodeCSV_BoolCoercion(t *testing.T) {
	t.Parallel()

	content := "name,is_fictional\nA,true\nB,false\nC,\n"
	decoded, err := Decode(content, domain.FormatCSV, domain.DataTypeAuthors)
	require.NoError(t, err)
	require.Len(t, decoded, 3)

	// Empty string coerces to false, not null.
	assert.Equal(t, true, decoded[0]["is_fictional"])
	assert.Equal(t, false, decoded[1]["is_fictional"])
	assert.Equal(t, false, decoded[2]["is_fictional"])
}

func TestEncodeCSV_Quoting(t *testing.T) {
	t.Parallel()

	rows := []domain.Row{{
		"content": "He said \"less is more\", then\nleft",
	}}
	content, err := Encode(domain.DataTypeQuotes, rows, domain.FormatCSV)
	require.NoError(t, err)

	// Internal quotes are doubled and the value is wrapped in quotes.
	assert.Contains(t, content, `"He said ""less is more"", then`)

	decoded, err := Decode(content, domain.FormatCSV, domain.DataTypeQuotes)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "He said \"less is more\", then\nleft", decoded[0].String("content"))
}

func TestEncode_DropsInternalKeys(t *testing.T) {
	t.Parallel()

	rows := []domain.Row{{"name": "tagged", "_line": int64(3)}}

	for _, f := range []domain.Format{domain.FormatJSON, domain.FormatCSV, domain.FormatXML} {
		content, err := Encode(domain.DataTypeTags, rows, f)
		require.NoError(t, err)
		assert.NotContains(t, content, "_line", "format %s", f)
	}
}

func TestDecode_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := Decode("x", domain.Format("yaml"), domain.DataTypeTags)
	assert.Error(t, err)

	_, err = Encode(domain.DataType("bogus"), nil, domain.FormatJSON)
	assert.Error(t, err)
}

func TestDecodeJSON_SingleObject(t *testing.T) {
	t.Parallel()

	decoded, err := Decode(`{"name": "Stoicism"}`, domain.FormatJSON, domain.DataTypeTags)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "Stoicism", decoded[0].String("name"))
}

func TestDecodeXML_Empty(t *testing.T) {
	t.Parallel()

	decoded, err := Decode("", domain.FormatXML, domain.DataTypeTags)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
