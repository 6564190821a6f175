package kvstore

import (
	"fmt"
	"regexp"
	"strings"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TableDef is a parsed, validated table name of a key-value table.
type TableDef struct {
	Schema string
	Name   string
}

func (td TableDef) FullTableName() string {
	name := td.Name
	if td.Schema != "" {
		name = fmt.Sprintf("%s.%s", td.Schema, td.Name)
	}
	return name
}

// ParseTableName accepts "table" or "schema.table". Table names end up
// inside statement text, so every part must be a plain SQL identifier.
func ParseTableName(s string) (TableDef, error) {
	var td TableDef
	parts := strings.Split(strings.TrimSpace(s), ".")
	switch len(parts) {
	case 1:
		td.Name = parts[0]
	case 2:
		td.Schema, td.Name = parts[0], parts[1]
	default:
		return td, fmt.Errorf("table name %q must be table or schema.table", s)
	}

	for _, p := range parts {
		if !identPattern.MatchString(p) {
			return td, fmt.Errorf("table name %q: %q is not a valid identifier", s, p)
		}
	}

	return td, nil
}
