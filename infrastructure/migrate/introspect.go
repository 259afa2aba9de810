package migrate

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type tableInfoRow struct {
	CID     int     `gorm:"column:cid"`
	Name    string  `gorm:"column:name"`
	Type    string  `gorm:"column:type"`
	NotNull int     `gorm:"column:notnull"`
	Dflt    *string `gorm:"column:dflt_value"`
	PK      int     `gorm:"column:pk"`
}

func columnExists(tx *gorm.DB, table, column string) (bool, error) {
	switch tx.Name() {
	case "postgres":
		var count int64
		err := tx.Raw(
			`SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = 'public' AND table_name = ? AND column_name = ?`,
			table, column,
		).Scan(&count).Error
		return count > 0, err
	case "sqlite":
		rows, err := sqliteTableInfo(tx, table)
		if err != nil {
			return false, err
		}
		for _, r := range rows {
			if r.Name == column {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unsupported dialect %q", tx.Name())
	}
}

func columnNullable(tx *gorm.DB, table, column string) (bool, error) {
	switch tx.Name() {
	case "postgres":
		var isNullable string
		err := tx.Raw(
			`SELECT is_nullable FROM information_schema.columns WHERE table_schema = 'public' AND table_name = ? AND column_name = ?`,
			table, column,
		).Scan(&isNullable).Error
		return strings.EqualFold(isNullable, "YES"), err
	case "sqlite":
		rows, err := sqliteTableInfo(tx, table)
		if err != nil {
			return false, err
		}
		for _, r := range rows {
			if r.Name == column {
				return r.NotNull == 0, nil
			}
		}
		return false, fmt.Errorf("column %s.%s not found", table, column)
	default:
		return false, fmt.Errorf("unsupported dialect %q", tx.Name())
	}
}

// columnUDTName returns the Postgres underlying type name of a column,
// e.g. _float8 for double precision[]. Empty when the column is missing.
func columnUDTName(tx *gorm.DB, table, column string) (string, error) {
	var udt string
	err := tx.Raw(
		`SELECT COALESCE(udt_name, '') FROM information_schema.columns WHERE table_schema = 'public' AND table_name = ? AND column_name = ?`,
		table, column,
	).Scan(&udt).Error
	return udt, err
}

func sqliteTableInfo(tx *gorm.DB, table string) ([]tableInfoRow, error) {
	var rows []tableInfoRow
	quoted := `"` + strings.ReplaceAll(table, `"`, `""`) + `"`
	err := tx.Raw("PRAGMA table_info(" + quoted + ")").Scan(&rows).Error
	return rows, err
}
