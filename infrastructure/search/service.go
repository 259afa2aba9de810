package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/infrastructure/persistence"
	"github.com/ccdr-explorer/corpus/internal/config"
	"github.com/ccdr-explorer/corpus/internal/database"
)

// Filters narrows a search to a slice of the corpus. Zero values mean no
// restriction. Geographies accepts ISO3 country codes (matched against
// the publication metadata's iso3_country_codes array) and aggregate
// region names (matched against its aggregates array); a publication
// matches when any value appears in either array.
type Filters struct {
	PublicationID int64
	DocumentID    int64
	TagNames      []string
	SectionTypes  []string
	Geographies   []string
	Limit         int
}

// Result is one search hit: the node whose content matched, with its
// provenance, cosine distance and similarity.
type Result struct {
	NodeID        int64   `gorm:"column:node_id"`
	DocumentID    int64   `gorm:"column:document_id"`
	PublicationID int64   `gorm:"column:publication_id"`
	TagName       string  `gorm:"column:tag_name"`
	SectionType   string  `gorm:"column:section_type"`
	Text          string  `gorm:"column:text"`
	Distance      float64 `gorm:"column:distance"`
	Similarity    float64 `gorm:"column:similarity"`
}

// Service answers semantic queries against one database. On Postgres the
// ranking runs in the database through pgvector; on SQLite the candidate
// rows are ranked in process.
type Service struct {
	db       database.Database
	store    persistence.Store
	embedder Embedder
	limit    int
}

// NewService creates a search Service.
func NewService(db database.Database, embedder Embedder, cfg config.SearchConfig) Service {
	return Service{
		db:       db,
		store:    persistence.NewStore(db),
		embedder: embedder,
		limit:    cfg.Limit(),
	}
}

// Search embeds the query and returns the most similar content nodes,
// best first.
func (s Service) Search(ctx context.Context, query string, filters Filters) ([]Result, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = s.limit
	}

	if s.db.IsPostgres() {
		return s.searchPostgres(ctx, vec, filters, limit)
	}
	return s.searchInProcess(ctx, vec, filters, limit)
}

// Nodes loads the full node records behind a set of search hits, in hit
// order.
func (s Service) Nodes(ctx context.Context, results []Result) ([]corpus.Node, error) {
	if len(results) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(results))
	for i, r := range results {
		ids[i] = r.NodeID
	}
	nodes, err := s.store.NodesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]corpus.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	ordered := make([]corpus.Node, 0, len(results))
	for _, r := range results {
		if n, ok := byID[r.NodeID]; ok {
			ordered = append(ordered, n)
		}
	}
	return ordered, nil
}

const resultColumns = `n.id AS node_id, n.document_id, d.publication_id, n.tag_name,
	COALESCE(n.section_type, '') AS section_type,
	COALESCE(c.text_content, c.description, c.caption, '') AS text`

func (s Service) baseQuery(ctx context.Context, filters Filters) *gorm.DB {
	q := s.db.Session(ctx).
		Table("embedding AS e").
		Joins("JOIN contentdata c ON c.id = e.content_data_id").
		Joins("JOIN node n ON n.id = c.node_id").
		Joins("JOIN document d ON d.id = n.document_id").
		Joins("LEFT JOIN publication p ON p.id = d.publication_id")

	if filters.PublicationID != 0 {
		q = q.Where("d.publication_id = ?", filters.PublicationID)
	}
	if filters.DocumentID != 0 {
		q = q.Where("n.document_id = ?", filters.DocumentID)
	}
	if len(filters.TagNames) > 0 {
		q = q.Where("n.tag_name IN ?", filters.TagNames)
	}
	if len(filters.SectionTypes) > 0 {
		q = q.Where("n.section_type IN ?", filters.SectionTypes)
	}
	if len(filters.Geographies) > 0 {
		sql, args := s.geographyClause(filters.Geographies)
		q = q.Where(sql, args...)
	}
	return q
}

// geographyClause matches publications whose metadata lists any of the
// given geographies, either in the iso3_country_codes array or in the
// aggregates array. Three-letter alphabetic values are uppercased for the
// code comparison; every value is also tried verbatim against the
// aggregates (aggregate codes like AFW are three letters too).
func (s Service) geographyClause(geographies []string) (string, []any) {
	var iso3 []string
	aggregates := geographies
	for _, g := range geographies {
		if isISO3Code(g) {
			iso3 = append(iso3, strings.ToUpper(g))
		}
	}

	iso3SQL := `EXISTS (SELECT 1 FROM jsonb_array_elements_text(p.publication_metadata->'geographical'->'iso3_country_codes') iso(code) WHERE iso.code IN ?)`
	aggSQL := `EXISTS (SELECT 1 FROM jsonb_array_elements_text(p.publication_metadata->'geographical'->'aggregates') agg(val) WHERE agg.val IN ?)`
	if !s.db.IsPostgres() {
		iso3SQL = `EXISTS (SELECT 1 FROM json_each(COALESCE(json_extract(p.publication_metadata, '$.geographical.iso3_country_codes'), '[]')) AS iso WHERE iso.value IN ?)`
		aggSQL = `EXISTS (SELECT 1 FROM json_each(COALESCE(json_extract(p.publication_metadata, '$.geographical.aggregates'), '[]')) AS agg WHERE agg.value IN ?)`
	}

	var clauses []string
	var args []any
	if len(iso3) > 0 {
		clauses = append(clauses, iso3SQL)
		args = append(args, iso3)
	}
	if len(aggregates) > 0 {
		clauses = append(clauses, aggSQL)
		args = append(args, aggregates)
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

func isISO3Code(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func (s Service) searchPostgres(ctx context.Context, vec []float64, filters Filters, limit int) ([]Result, error) {
	param := database.NewVector(vec)
	var results []Result
	err := s.baseQuery(ctx, filters).
		Select(resultColumns+`,
	e.embedding_vector <=> ?::vector AS distance,
	1 - (e.embedding_vector <=> ?::vector) AS similarity`, param, param).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "e.embedding_vector <=> ?::vector",
			Vars:               []any{param},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}

type candidate struct {
	Result
	Vector database.Vector `gorm:"column:embedding_vector"`
}

func (s Service) searchInProcess(ctx context.Context, vec []float64, filters Filters, limit int) ([]Result, error) {
	var candidates []candidate
	err := s.baseQuery(ctx, filters).
		Select(resultColumns + `, e.embedding_vector`).
		Scan(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		r := c.Result
		r.Similarity = cosineSimilarity(vec, c.Vector.Floats())
		r.Distance = 1 - r.Similarity
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
