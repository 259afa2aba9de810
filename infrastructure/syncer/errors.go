package syncer

import (
	"fmt"
	"strings"

	"github.com/ccdr-explorer/corpus/internal/ranges"
)

// sampleLimit bounds how many offending ids an error message enumerates.
const sampleLimit = 10

// SchemaMismatchError reports tables whose column definitions differ
// between source and target. Raised before any row data is read or
// written.
type SchemaMismatchError struct {
	Tables []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch for tables: %s", strings.Join(e.Tables, ", "))
}

// AnchorDivergence names which part of an anchor fingerprint disagreed.
type AnchorDivergence string

// AnchorDivergence values.
const (
	DivergenceCount   AnchorDivergence = "count"
	DivergenceIDSet   AnchorDivergence = "id-set"
	DivergenceIDRange AnchorDivergence = "id-range"
)

// AnchorMismatchError reports that a publication/document anchor table is
// not identical on both sides. Anchors are managed out of band and never
// auto-corrected.
type AnchorMismatchError struct {
	Table      string
	Divergence AnchorDivergence
	Source     Fingerprint
	Target     Fingerprint
}

func (e *AnchorMismatchError) Error() string {
	switch e.Divergence {
	case DivergenceCount:
		return fmt.Sprintf("%s row count differs (source=%d, target=%d)",
			e.Table, e.Source.Count, e.Target.Count)
	case DivergenceIDRange:
		return fmt.Sprintf("%s id min/max differ (source=%d-%d, target=%d-%d)",
			e.Table, e.Source.MinID, e.Source.MaxID, e.Target.MinID, e.Target.MaxID)
	default:
		return fmt.Sprintf("%s id sets differ between source and target", e.Table)
	}
}

// TableCount pairs a table name with a row count.
type TableCount struct {
	Table string
	Count int64
}

// NonEmptyTargetError reports that strict mode found pre-existing rows in
// destination dependent tables.
type NonEmptyTargetError struct {
	Tables []TableCount
}

func (e *NonEmptyTargetError) Error() string {
	parts := make([]string, len(e.Tables))
	for i, tc := range e.Tables {
		parts[i] = fmt.Sprintf("%s(%d)", tc.Table, tc.Count)
	}
	return fmt.Sprintf("target database is not empty for: %s", strings.Join(parts, ", "))
}

// DanglingReferenceError reports document ids referenced by source nodes
// that do not exist at the destination.
type DanglingReferenceError struct {
	Missing []int64
}

func (e *DanglingReferenceError) Error() string {
	sample := e.Missing
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}
	return fmt.Sprintf(
		"%d document ids referenced by source nodes are missing at target (sample: %s)",
		len(e.Missing), ranges.Format(sample))
}

// CountMismatchError reports a post-sync row count that disagrees with the
// source, indicating a partial or corrupted transfer.
type CountMismatchError struct {
	Table  string
	Source int64
	Target int64
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%s row count mismatch after sync (source=%d, target=%d)",
		e.Table, e.Source, e.Target)
}
