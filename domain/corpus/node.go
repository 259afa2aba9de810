package corpus

// TagName classifies the markup element a node represents. The node_type
// column and its enum were dropped in an earlier schema revision; tag_name
// is NOT NULL since then.
type TagName string

// TagName values.
const (
	TagSection  TagName = "section"
	TagH1       TagName = "h1"
	TagH2       TagName = "h2"
	TagH3       TagName = "h3"
	TagP        TagName = "p"
	TagTable    TagName = "table"
	TagFigure   TagName = "figure"
	TagCaption  TagName = "caption"
	TagList     TagName = "list"
	TagListItem TagName = "list_item"
	TagText     TagName = "text"
)

// SectionType classifies the logical document section a node belongs to.
type SectionType string

// SectionType values.
const (
	SectionAbstract     SectionType = "abstract"
	SectionIntroduction SectionType = "introduction"
	SectionMethods      SectionType = "methods"
	SectionResults      SectionType = "results"
	SectionConclusion   SectionType = "conclusion"
	SectionReferences   SectionType = "references"
	SectionAnnex        SectionType = "annex"
)

// BBox is a normalized bounding box on a page.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// PositionalSpan locates a node fragment on a physical and logical page.
type PositionalSpan struct {
	PagePDF     int  `json:"page_pdf"`
	PageLogical int  `json:"page_logical"`
	BBox        BBox `json:"bbox"`
}

// Node is one element of a document's content forest. ParentID is a
// back-reference by identifier, nil for roots; the set of nodes per
// document forms a forest. SequenceInParent orders siblings and is unique
// among them, but not tree-wide.
type Node struct {
	ID               int64
	DocumentID       int64
	ParentID         *int64
	SequenceInParent int
	TagName          TagName
	SectionType      SectionType
	PositionalData   []PositionalSpan
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.ParentID == nil
}
