package corpus

import "time"

// EmbeddingSource names which ContentData field an embedding was computed
// from.
type EmbeddingSource string

// EmbeddingSource values.
const (
	EmbeddingSourceTextContent EmbeddingSource = "text_content"
	EmbeddingSourceDescription EmbeddingSource = "description"
	EmbeddingSourceCaption     EmbeddingSource = "caption"
)

// ContentData carries the extracted content of a node, attached 1:1 to a
// subset of nodes (typically leaf/text nodes). Either TextContent or
// StorageURL is populated depending on the content kind.
type ContentData struct {
	ID              int64
	NodeID          int64
	TextContent     string
	StorageURL      string
	Description     string
	Caption         string
	EmbeddingSource EmbeddingSource
}

// Embedding is a fixed-dimensionality vector computed from a ContentData
// row by a named model. Several embeddings may reference one ContentData
// (different models), though 1:1 is the common case.
type Embedding struct {
	ID            int64
	ContentDataID int64
	Vector        []float64
	ModelName     string
	CreatedAt     time.Time
}
