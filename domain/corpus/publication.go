package corpus

import "time"

// DocumentType classifies a document within its publication.
type DocumentType string

// DocumentType values.
const (
	DocumentTypeMain        DocumentType = "main"
	DocumentTypeAnnex       DocumentType = "annex"
	DocumentTypeSummary     DocumentType = "summary"
	DocumentTypeTranslation DocumentType = "translation"
)

// Publication is an anchor entity: a published report or article to which
// documents belong. Immutable during sync.
type Publication struct {
	ID              int64
	Title           string
	Abstract        string
	Authors         string
	PublicationDate *time.Time
	Source          string
	SourceURL       string
	URI             string
	Metadata        map[string]any
}

// Document is an anchor entity: one file belonging to a publication.
type Document struct {
	ID            int64
	PublicationID int64
	Type          DocumentType
	DownloadURL   string
	Description   string
	MimeType      string
	Charset       string
	StorageURL    string
	FileSize      int64
	Language      string
	Version       string
}
