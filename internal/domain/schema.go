package domain

// FieldKind is the coercion type of a schema field. Decode paths use it
// to turn stringly CSV/XML values back into numbers, booleans, times,
// and nested JSON.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindInt    FieldKind = "int"
	KindFloat  FieldKind = "float"
	KindBool   FieldKind = "bool"
	KindTime   FieldKind = "time"
	KindJSON   FieldKind = "json"
)

// Field describes one column of an entity schema.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	MaxLen   int      // 0 = unbounded
	Enum     []string // non-empty = value must be a member (case-insensitive)
	Counter  bool     // numeric counter; must be >= 0, merged with fill-missing, never summed
	FreeText bool     // long-form text; serialized as CDATA in XML
	// Ref names the entity this field references by ID. Used for
	// dependency checks during import.
	Ref DataType
}

// Schema is the shape of one entity type. It is the single source of
// truth for validation, codec coercion, CSV column order, and the
// repositories' column whitelists.
type Schema struct {
	Entity   DataType
	Singular string // XML row element name
	Table    string
	Fields   []Field
}

// Field returns the named field definition.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns returns all field names in declaration order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

// SchemaFor returns the schema for an entity type.
func SchemaFor(dt DataType) (Schema, bool) {
	s, ok := schemas[dt]
	return s, ok
}

// InternalKeyPrefix marks row keys that are processing metadata, not
// entity fields. They are never serialized.
const InternalKeyPrefix = "_"

var schemas = map[DataType]Schema{
	DataTypeAuthors: {
		Entity:   DataTypeAuthors,
		Singular: "author",
		Table:    "authors",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "name", Kind: KindString, Required: true, MaxLen: 255},
			{Name: "is_fictional", Kind: KindBool},
			{Name: "birth_date", Kind: KindTime},
			{Name: "death_date", Kind: KindTime},
			{Name: "job", Kind: KindString, MaxLen: 255},
			{Name: "summary", Kind: KindString, FreeText: true},
			{Name: "description", Kind: KindString, FreeText: true},
			{Name: "main_picture", Kind: KindString, MaxLen: 1024},
			{Name: "socials", Kind: KindJSON},
			{Name: "urls", Kind: KindJSON},
			{Name: "views_count", Kind: KindInt, Counter: true},
			{Name: "likes_count", Kind: KindInt, Counter: true},
			{Name: "shares_count", Kind: KindInt, Counter: true},
			{Name: "created_at", Kind: KindTime},
			{Name: "updated_at", Kind: KindTime},
		},
	},
	DataTypeReferences: {
		Entity:   DataTypeReferences,
		Singular: "reference",
		Table:    "references",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "name", Kind: KindString, Required: true, MaxLen: 255},
			{Name: "original_language", Kind: KindString, MaxLen: 64},
			{Name: "release_date", Kind: KindTime},
			{Name: "description", Kind: KindString, FreeText: true},
			{Name: "primary_type", Kind: KindString, Required: true, Enum: []string{
				"film", "book", "tv_series", "music", "speech", "podcast", "media", "other",
			}},
			{Name: "secondary_type", Kind: KindString, MaxLen: 128},
			{Name: "main_picture", Kind: KindString, MaxLen: 1024},
			{Name: "urls", Kind: KindJSON},
			{Name: "views_count", Kind: KindInt, Counter: true},
			{Name: "likes_count", Kind: KindInt, Counter: true},
			{Name: "shares_count", Kind: KindInt, Counter: true},
			{Name: "created_at", Kind: KindTime},
			{Name: "updated_at", Kind: KindTime},
		},
	},
	DataTypeTags: {
		Entity:   DataTypeTags,
		Singular: "tag",
		Table:    "tags",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "name", Kind: KindString, Required: true, MaxLen: 100},
			{Name: "description", Kind: KindString, MaxLen: 500},
			{Name: "color", Kind: KindString, MaxLen: 16},
			{Name: "created_at", Kind: KindTime},
			{Name: "updated_at", Kind: KindTime},
		},
	},
	DataTypeUsers: {
		Entity:   DataTypeUsers,
		Singular: "user",
		Table:    "users",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "name", Kind: KindString, Required: true, MaxLen: 100},
			{Name: "email", Kind: KindString, Required: true, MaxLen: 255},
			{Name: "role", Kind: KindString, Enum: []string{"admin", "moderator", "user"}},
			{Name: "is_active", Kind: KindBool},
			{Name: "picture", Kind: KindString, MaxLen: 1024},
			{Name: "created_at", Kind: KindTime},
			{Name: "updated_at", Kind: KindTime},
		},
	},
	DataTypeQuotes: {
		Entity:   DataTypeQuotes,
		Singular: "quote",
		Table:    "quotes",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "content", Kind: KindString, Required: true, MaxLen: 10000, FreeText: true},
			{Name: "language", Kind: KindString, MaxLen: 64},
			{Name: "status", Kind: KindString, Enum: []string{"draft", "pending", "approved", "rejected"}},
			{Name: "author_id", Kind: KindInt, Ref: DataTypeAuthors},
			{Name: "reference_id", Kind: KindInt, Ref: DataTypeReferences},
			{Name: "user_id", Kind: KindInt, Ref: DataTypeUsers},
			{Name: "is_featured", Kind: KindBool},
			{Name: "views_count", Kind: KindInt, Counter: true},
			{Name: "likes_count", Kind: KindInt, Counter: true},
			{Name: "shares_count", Kind: KindInt, Counter: true},
			{Name: "created_at", Kind: KindTime},
			{Name: "updated_at", Kind: KindTime},
		},
	},
	DataTypeQuoteTags: {
		Entity:   DataTypeQuoteTags,
		Singular: "quote_tag",
		Table:    "quote_tags",
		Fields: []Field{
			{Name: "quote_id", Kind: KindInt, Required: true, Ref: DataTypeQuotes},
			{Name: "tag_id", Kind: KindInt, Required: true, Ref: DataTypeTags},
		},
	},
	DataTypeUserCollections: {
		Entity:   DataTypeUserCollections,
		Singular: "user_collection",
		Table:    "user_collections",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "user_id", Kind: KindInt, Required: true, Ref: DataTypeUsers},
			{Name: "name", Kind: KindString, Required: true, MaxLen: 255},
			{Name: "description", Kind: KindString, MaxLen: 1000},
			{Name: "is_public", Kind: KindBool},
			{Name: "created_at", Kind: KindTime},
			{Name: "updated_at", Kind: KindTime},
		},
	},
	DataTypeCollectionQuotes: {
		Entity:   DataTypeCollectionQuotes,
		Singular: "collection_quote",
		Table:    "collection_quotes",
		Fields: []Field{
			{Name: "collection_id", Kind: KindInt, Required: true, Ref: DataTypeUserCollections},
			{Name: "quote_id", Kind: KindInt, Required: true, Ref: DataTypeQuotes},
			{Name: "created_at", Kind: KindTime},
		},
	},
	DataTypeUserLikes: {
		Entity:   DataTypeUserLikes,
		Singular: "user_like",
		Table:    "user_likes",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "user_id", Kind: KindInt, Required: true, Ref: DataTypeUsers},
			{Name: "content_type", Kind: KindString, Required: true, Enum: []string{"quote", "author", "reference"}},
			{Name: "content_id", Kind: KindInt, Required: true},
			{Name: "created_at", Kind: KindTime},
		},
	},
	DataTypeUserSessions: {
		Entity:   DataTypeUserSessions,
		Singular: "user_session",
		Table:    "user_sessions",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "user_id", Kind: KindInt, Required: true, Ref: DataTypeUsers},
			{Name: "device", Kind: KindString, MaxLen: 255},
			{Name: "ip_address", Kind: KindString, MaxLen: 64},
			{Name: "user_agent", Kind: KindString, MaxLen: 512},
			{Name: "expires_at", Kind: KindTime},
			{Name: "created_at", Kind: KindTime},
		},
	},
	DataTypeUserMessages: {
		Entity:   DataTypeUserMessages,
		Singular: "user_message",
		Table:    "user_messages",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "user_id", Kind: KindInt, Ref: DataTypeUsers},
			{Name: "name", Kind: KindString, MaxLen: 100},
			{Name: "email", Kind: KindString, MaxLen: 255},
			{Name: "subject", Kind: KindString, MaxLen: 255},
			{Name: "message", Kind: KindString, Required: true, FreeText: true},
			{Name: "is_read", Kind: KindBool},
			{Name: "created_at", Kind: KindTime},
		},
	},
	DataTypeQuoteReports: {
		Entity:   DataTypeQuoteReports,
		Singular: "quote_report",
		Table:    "quote_reports",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "quote_id", Kind: KindInt, Required: true, Ref: DataTypeQuotes},
			{Name: "user_id", Kind: KindInt, Ref: DataTypeUsers},
			{Name: "reason", Kind: KindString, Required: true, MaxLen: 255},
			{Name: "details", Kind: KindString, FreeText: true},
			{Name: "status", Kind: KindString, Enum: []string{"open", "reviewed", "dismissed"}},
			{Name: "created_at", Kind: KindTime},
		},
	},
	DataTypeQuoteViews: {
		Entity:   DataTypeQuoteViews,
		Singular: "quote_view",
		Table:    "quote_views",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "quote_id", Kind: KindInt, Required: true, Ref: DataTypeQuotes},
			{Name: "user_id", Kind: KindInt, Ref: DataTypeUsers},
			{Name: "created_at", Kind: KindTime},
		},
	},
	DataTypeAuthorViews: {
		Entity:   DataTypeAuthorViews,
		Singular: "author_view",
		Table:    "author_views",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "author_id", Kind: KindInt, Required: true, Ref: DataTypeAuthors},
			{Name: "user_id", Kind: KindInt, Ref: DataTypeUsers},
			{Name: "created_at", Kind: KindTime},
		},
	},
	DataTypeReferenceViews: {
		Entity:   DataTypeReferenceViews,
		Singular: "reference_view",
		Table:    "reference_views",
		Fields: []Field{
			{Name: "id", Kind: KindInt},
			{Name: "reference_id", Kind: KindInt, Required: true, Ref: DataTypeReferences},
			{Name: "user_id", Kind: KindInt, Ref: DataTypeUsers},
			{Name: "created_at", Kind: KindTime},
		},
	},
}
