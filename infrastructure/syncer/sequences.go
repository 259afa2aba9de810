package syncer

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/ccdr-explorer/corpus/domain/corpus"
)

// ResetSequences realigns the id generators of the dependent tables with
// the rows just written, so inserts made after a sync do not collide with
// transferred ids. On Postgres this drives setval on each table's serial
// sequence; on SQLite it rewrites sqlite_sequence.
func ResetSequences(tx *gorm.DB) error {
	for _, table := range corpus.DependentTables() {
		var err error
		switch tx.Name() {
		case "postgres":
			err = resetPostgresSequence(tx, table)
		case "sqlite":
			err = resetSQLiteSequence(tx, table)
		default:
			err = fmt.Errorf("unsupported dialect %q", tx.Name())
		}
		if err != nil {
			return fmt.Errorf("reset sequence for %s: %w", table, err)
		}
	}
	return nil
}

func resetPostgresSequence(tx *gorm.DB, table string) error {
	// GREATEST keeps setval within sequence bounds when the table is
	// empty.
	return tx.Exec(
		`SELECT setval(pg_get_serial_sequence(?, 'id'), GREATEST(COALESCE((SELECT MAX(id) FROM `+quoteIdent(table)+`), 1), 1), true)`,
		table,
	).Error
}

func resetSQLiteSequence(tx *gorm.DB, table string) error {
	var trackerCount int64
	err := tx.Raw(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'`,
	).Scan(&trackerCount).Error
	if err != nil {
		return err
	}
	if trackerCount == 0 {
		return nil
	}

	var maxID sql.NullInt64
	err = tx.Raw(`SELECT MAX(id) FROM ` + quoteIdent(table)).Scan(&maxID).Error
	if err != nil {
		return err
	}

	if err := tx.Exec(`DELETE FROM sqlite_sequence WHERE name = ?`, table).Error; err != nil {
		return err
	}
	return tx.Exec(
		`INSERT INTO sqlite_sequence (name, seq) VALUES (?, ?)`,
		table, maxID.Int64,
	).Error
}
