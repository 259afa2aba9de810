package persistence

import (
	"github.com/ccdr-explorer/corpus/domain/corpus"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PublicationToDomain converts a PublicationModel to a domain Publication.
func PublicationToDomain(m PublicationModel) corpus.Publication {
	return corpus.Publication{
		ID:              m.ID,
		Title:           m.Title,
		Abstract:        m.Abstract,
		Authors:         m.Authors,
		PublicationDate: m.PublicationDate,
		Source:          m.Source,
		SourceURL:       m.SourceURL,
		URI:             m.URI,
		Metadata:        m.Metadata,
	}
}

// NodeToDomain converts a NodeModel to a domain Node.
func NodeToDomain(m NodeModel) corpus.Node {
	return corpus.Node{
		ID:               m.ID,
		DocumentID:       m.DocumentID,
		ParentID:         m.ParentID,
		SequenceInParent: m.SequenceInParent,
		TagName:          corpus.TagName(m.TagName),
		SectionType:      corpus.SectionType(deref(m.SectionType)),
		PositionalData:   m.PositionalData,
	}
}
