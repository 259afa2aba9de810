// Package corpus defines the entities of the document-exploration data
// layer: publications, documents, hierarchical content nodes, extracted
// content, and vector embeddings.
package corpus

// Table names as they exist in both environments. The synchronizer and the
// schema tooling address tables by these names.
const (
	TablePublication = "publication"
	TableDocument    = "document"
	TableNode        = "node"
	TableContentData = "contentdata"
	TableEmbedding   = "embedding"
)

// AnchorTables are pre-populated identically on both sides by an
// out-of-band process. The synchronizer verifies them and never writes
// to them.
func AnchorTables() []string {
	return []string{TablePublication, TableDocument}
}

// DependentTables are the write targets of a sync run, in dependency
// order: nodes reference documents, contentdata references nodes,
// embeddings reference contentdata.
func DependentTables() []string {
	return []string{TableNode, TableContentData, TableEmbedding}
}

// AllTables returns every table the synchronizer touches or verifies,
// anchors first.
func AllTables() []string {
	return append(AnchorTables(), DependentTables()...)
}

// EmbeddingDimensions is the fixed dimensionality of stored vectors
// (text-embedding-3-small).
const EmbeddingDimensions = 1536
