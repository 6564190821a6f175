package kvstore

import (
	"fmt"
	"strings"
)

func insertSQL(table string) string {
	return fmt.Sprintf("INSERT INTO %s (key, value) VALUES (?, ?)", table)
}

func insertOrReplaceSQL(table string) string {
	return fmt.Sprintf("INSERT INTO %s (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value", table)
}

func insertOrIgnoreSQL(table string) string {
	return fmt.Sprintf("INSERT INTO %s (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING", table)
}

func updateSQL(table string) string {
	return fmt.Sprintf("UPDATE %s SET value = ? WHERE key = ?", table)
}

func deleteSQL(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE key = ?", table)
}

func getSQL(table string) string {
	return fmt.Sprintf("SELECT key, value FROM %s WHERE key = ?", table)
}

func scanSQL(table string) string {
	return fmt.Sprintf("SELECT key, value FROM %s", table)
}

// rangeSQL builds the paging statement. The limit is validated by the
// caller and written into the statement text.
func rangeSQL(table string, cursor Cursor) (string, []any) {
	var qry strings.Builder
	var args []any

	qry.WriteString(fmt.Sprintf("SELECT key, value FROM %s", table))

	var where []string
	if cursor.StartingAfter != nil {
		where = append(where, "key > ?")
		args = append(args, *cursor.StartingAfter)
	}

	if cursor.EndingBefore != nil {
		where = append(where, "key < ?")
		args = append(args, *cursor.EndingBefore)
	}

	if len(where) > 0 {
		qry.WriteString(" WHERE ")
		qry.WriteString(strings.Join(where, " AND "))
	}

	if cursor.Ascending {
		qry.WriteString(" ORDER BY key ASC")
	} else {
		qry.WriteString(" ORDER BY key DESC")
	}

	qry.WriteString(fmt.Sprintf(" LIMIT %d", cursor.Limit))

	return qry.String(), args
}

func createTableSQL(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)", table)
}
