package domain

import "testing"

func TestParseDataType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  DataType
		ok    bool
	}{
		{"authors", DataTypeAuthors, true},
		{"quote_tags", DataTypeQuoteTags, true},
		{"quote-tags", DataTypeQuoteTags, true},
		{"User-Likes", DataTypeUserLikes, true},
		{"  quotes  ", DataTypeQuotes, true},
		{"reference-views", DataTypeReferenceViews, true},
		{"unknown", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDataType(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseDataType(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEntityOrder_CoversAllSchemas(t *testing.T) {
	t.Parallel()

	seen := make(map[DataType]bool, len(EntityOrder))
	for _, dt := range EntityOrder {
		if !dt.IsValid() {
			t.Errorf("EntityOrder contains unknown entity %q", dt)
		}
		if seen[dt] {
			t.Errorf("EntityOrder contains duplicate entity %q", dt)
		}
		seen[dt] = true
	}
	if len(seen) != len(schemas) {
		t.Errorf("EntityOrder has %d entities, schemas has %d", len(seen), len(schemas))
	}
}

func TestEntityOrder_DependenciesFirst(t *testing.T) {
	t.Parallel()

	position := make(map[DataType]int, len(EntityOrder))
	for i, dt := range EntityOrder {
		position[dt] = i
	}

	for _, dt := range EntityOrder {
		schema, _ := SchemaFor(dt)
		for _, f := range schema.Fields {
			if f.Ref == "" {
				continue
			}
			if position[f.Ref] >= position[dt] {
				t.Errorf("%s.%s references %s, which is ordered later", dt, f.Name, f.Ref)
			}
		}
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   bool
	}{
		{FormatJSON, true},
		{FormatCSV, true},
		{FormatXML, true},
		{Format("yaml"), false},
		{Format(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			if got := tt.format.IsValid(); got != tt.want {
				t.Errorf("Format(%q).IsValid() = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestConflictMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode ConflictMode
		want bool
	}{
		{ConflictInsert, true},
		{ConflictIgnore, true},
		{ConflictUpsert, true},
		{ConflictMode("merge"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()
			if got := tt.mode.IsValid(); got != tt.want {
				t.Errorf("ConflictMode(%q).IsValid() = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestImportStatus_Terminal(t *testing.T) {
	t.Parallel()

	if ImportPending.Terminal() || ImportProcessing.Terminal() {
		t.Error("pending/processing must not be terminal")
	}
	if !ImportCompleted.Terminal() || !ImportFailed.Terminal() {
		t.Error("completed/failed must be terminal")
	}
}
