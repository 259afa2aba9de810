package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/internal/database"
)

// JSONMap stores a free-form JSON object (jsonb in Postgres, text in
// SQLite).
type JSONMap map[string]any

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan JSONMap: %w", err)
	}
	return json.Unmarshal(data, m)
}

// Value implements driver.Valuer. The payload is rendered as a string so
// SQLite stores text, not a blob, keeping json_extract usable.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// GormDataType implements schema.GormDataTypeInterface.
func (JSONMap) GormDataType() string { return "text" }

// GormDBDataType implements migrator.GormDBDataTypeInterface.
func (JSONMap) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// PositionalJSON stores a node's positional geometry payload as JSON.
type PositionalJSON []corpus.PositionalSpan

// Scan implements sql.Scanner.
func (p *PositionalJSON) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan PositionalJSON: %w", err)
	}
	return json.Unmarshal(data, p)
}

// Value implements driver.Valuer.
func (p PositionalJSON) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// GormDataType implements schema.GormDataTypeInterface.
func (PositionalJSON) GormDataType() string { return "text" }

// GormDBDataType implements migrator.GormDBDataTypeInterface.
func (PositionalJSON) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported source type %T", value)
	}
}

// PublicationModel is the GORM model for the publication anchor table.
type PublicationModel struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Title           string     `gorm:"column:title;not null"`
	Abstract        string     `gorm:"column:abstract"`
	Authors         string     `gorm:"column:authors"`
	PublicationDate *time.Time `gorm:"column:publication_date"`
	Source          string     `gorm:"column:source"`
	SourceURL       string     `gorm:"column:source_url"`
	URI             string     `gorm:"column:uri"`
	Metadata        JSONMap    `gorm:"column:publication_metadata"`
}

// TableName implements the GORM table name convention.
func (PublicationModel) TableName() string { return corpus.TablePublication }

// DocumentModel is the GORM model for the document anchor table.
type DocumentModel struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement"`
	PublicationID int64  `gorm:"column:publication_id;not null;index"`
	Type          string `gorm:"column:type;not null"`
	DownloadURL   string `gorm:"column:download_url"`
	Description   string `gorm:"column:description"`
	MimeType      string `gorm:"column:mime_type"`
	Charset       string `gorm:"column:charset"`
	StorageURL    string `gorm:"column:storage_url"`
	FileSize      int64  `gorm:"column:file_size"`
	Language      string `gorm:"column:language"`
	Version       string `gorm:"column:version"`

	Publication *PublicationModel `gorm:"foreignKey:PublicationID"`
}

// TableName implements the GORM table name convention.
func (DocumentModel) TableName() string { return corpus.TableDocument }

// NodeModel is the GORM model for the node tree table. ParentID is a
// nullable self-reference; roots have ParentID NULL.
type NodeModel struct {
	ID               int64          `gorm:"column:id;primaryKey;autoIncrement"`
	DocumentID       int64          `gorm:"column:document_id;not null;index"`
	ParentID         *int64         `gorm:"column:parent_id;index"`
	SequenceInParent int            `gorm:"column:sequence_in_parent;not null"`
	TagName          string         `gorm:"column:tag_name;not null"`
	SectionType      *string        `gorm:"column:section_type"`
	PositionalData   PositionalJSON `gorm:"column:positional_data"`

	Document *DocumentModel `gorm:"foreignKey:DocumentID"`
	Parent   *NodeModel     `gorm:"foreignKey:ParentID"`
}

// TableName implements the GORM table name convention.
func (NodeModel) TableName() string { return corpus.TableNode }

// ContentDataModel is the GORM model for the contentdata table.
type ContentDataModel struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement"`
	NodeID          int64   `gorm:"column:node_id;not null;uniqueIndex"`
	TextContent     *string `gorm:"column:text_content"`
	StorageURL      *string `gorm:"column:storage_url"`
	Description     *string `gorm:"column:description"`
	Caption         *string `gorm:"column:caption"`
	EmbeddingSource string  `gorm:"column:embedding_source;not null"`

	Node *NodeModel `gorm:"foreignKey:NodeID"`
}

// TableName implements the GORM table name convention.
func (ContentDataModel) TableName() string { return corpus.TableContentData }

// EmbeddingModel is the GORM model for the embedding table. The vector
// column is vector(1536) in Postgres and bracketed text in SQLite; both
// round-trip through database.Vector.
type EmbeddingModel struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ContentDataID int64           `gorm:"column:content_data_id;not null;index"`
	Vector        database.Vector `gorm:"column:embedding_vector"`
	ModelName     string          `gorm:"column:model_name;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at"`

	ContentData *ContentDataModel `gorm:"foreignKey:ContentDataID"`
}

// TableName implements the GORM table name convention.
func (EmbeddingModel) TableName() string { return corpus.TableEmbedding }
