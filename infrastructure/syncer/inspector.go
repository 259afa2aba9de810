// Package syncer copies the dependent corpus tables (node, contentdata,
// embedding) from a source database into a target database inside a
// single transaction, after verifying that both sides agree on schema
// and anchor content.
package syncer

import (
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"
)

// ColumnDescriptor is a dialect-neutral description of one table column.
// Serial defaults are normalized so that two Postgres databases with
// differently named sequences still compare equal.
type ColumnDescriptor struct {
	Name     string
	Type     string
	Nullable bool
	Default  string
	Identity bool
}

const postgresColumnsSQL = `
SELECT a.attname AS name,
       pg_catalog.format_type(a.atttypid, a.atttypmod) AS type,
       NOT a.attnotnull AS nullable,
       COALESCE(pg_get_expr(ad.adbin, ad.adrelid), '') AS default_expr,
       a.attidentity IN ('a', 'd') AS identity
FROM pg_attribute a
JOIN pg_class c ON a.attrelid = c.oid
JOIN pg_namespace n ON c.relnamespace = n.oid
LEFT JOIN pg_attrdef ad ON a.attrelid = ad.adrelid AND a.attnum = ad.adnum
WHERE c.relkind = 'r'
  AND n.nspname = 'public'
  AND c.relname = ?
  AND a.attnum > 0
  AND NOT a.attisdropped
ORDER BY a.attnum`

type postgresColumn struct {
	Name        string `gorm:"column:name"`
	Type        string `gorm:"column:type"`
	Nullable    bool   `gorm:"column:nullable"`
	DefaultExpr string `gorm:"column:default_expr"`
	Identity    bool   `gorm:"column:identity"`
}

type sqliteColumn struct {
	CID       int     `gorm:"column:cid"`
	Name      string  `gorm:"column:name"`
	Type      string  `gorm:"column:type"`
	NotNull   int     `gorm:"column:notnull"`
	DfltValue *string `gorm:"column:dflt_value"`
	PK        int     `gorm:"column:pk"`
}

// DescribeTable returns the column descriptors of a table, in ordinal
// order. An unknown table yields an empty slice, which schema comparison
// then reports as a mismatch.
func DescribeTable(db *gorm.DB, table string) ([]ColumnDescriptor, error) {
	switch db.Name() {
	case "postgres":
		return describePostgres(db, table)
	case "sqlite":
		return describeSQLite(db, table)
	default:
		return nil, fmt.Errorf("describe %s: unsupported dialect %q", table, db.Name())
	}
}

func describePostgres(db *gorm.DB, table string) ([]ColumnDescriptor, error) {
	var rows []postgresColumn
	if err := db.Raw(postgresColumnsSQL, table).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	cols := make([]ColumnDescriptor, len(rows))
	for i, r := range rows {
		cols[i] = ColumnDescriptor{
			Name:     r.Name,
			Type:     strings.ToLower(r.Type),
			Nullable: r.Nullable,
			Default:  normalizeDefault(r.DefaultExpr),
			Identity: r.Identity,
		}
	}
	return cols, nil
}

func describeSQLite(db *gorm.DB, table string) ([]ColumnDescriptor, error) {
	var rows []sqliteColumn
	if err := db.Raw("PRAGMA table_info(" + quoteIdent(table) + ")").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	cols := make([]ColumnDescriptor, len(rows))
	for i, r := range rows {
		dflt := ""
		if r.DfltValue != nil {
			dflt = *r.DfltValue
		}
		cols[i] = ColumnDescriptor{
			Name:     r.Name,
			Type:     strings.ToLower(r.Type),
			Nullable: r.NotNull == 0 && r.PK == 0,
			Default:  normalizeDefault(dflt),
			Identity: r.PK == 1,
		}
	}
	return cols, nil
}

// normalizeDefault collapses sequence-backed defaults to a canonical form
// so that nextval('node_id_seq') and nextval('node_id_seq1') compare
// equal.
func normalizeDefault(expr string) string {
	if strings.HasPrefix(strings.ToLower(expr), "nextval(") {
		return "nextval(...)"
	}
	return expr
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// VerifySchemas compares the column definitions of every given table on
// both sides and returns a SchemaMismatchError naming all divergent
// tables, or nil when every table matches.
func VerifySchemas(source, target *gorm.DB, tables []string) error {
	var mismatched []string
	for _, table := range tables {
		srcCols, err := DescribeTable(source, table)
		if err != nil {
			return err
		}
		dstCols, err := DescribeTable(target, table)
		if err != nil {
			return err
		}
		if !slices.Equal(srcCols, dstCols) {
			mismatched = append(mismatched, table)
		}
	}
	if len(mismatched) > 0 {
		return &SchemaMismatchError{Tables: mismatched}
	}
	return nil
}
