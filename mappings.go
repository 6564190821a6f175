package kvstore

import (
	"sort"
)

// Mappings maps document type keys to table names. A built Mappings is
// never mutated, so it can be shared between goroutines without locking.
type Mappings struct {
	tables map[string]string
}

// MappingsBuilder collects mappings before they are frozen by Build.
type MappingsBuilder struct {
	entries []mappingEntry
}

type mappingEntry struct {
	typeKey string
	table   string
}

// NewMappingsBuilder returns an empty builder.
func NewMappingsBuilder() *MappingsBuilder {
	return &MappingsBuilder{}
}

// Map registers table for typeKey. Mapping the same key again overrides the
// earlier table.
func (b *MappingsBuilder) Map(typeKey string, table string) *MappingsBuilder {
	b.entries = append(b.entries, mappingEntry{typeKey: typeKey, table: table})
	return b
}

// MapDocument registers table for the name of doc.
func MapDocument[T any](b *MappingsBuilder, doc DocumentType[T], table string) *MappingsBuilder {
	return b.Map(doc.Name, table)
}

// Build validates every table name and freezes the registrations. An empty
// type key or a malformed table name yields a ConfigurationError.
func (b *MappingsBuilder) Build() (Mappings, error) {
	tables := make(map[string]string, len(b.entries))
	for _, e := range b.entries {
		if e.typeKey == "" {
			return Mappings{}, &ConfigurationError{Table: e.table, Reason: "type key is empty"}
		}

		td, err := ParseTableName(e.table)
		if err != nil {
			return Mappings{}, &ConfigurationError{TypeKey: e.typeKey, Table: e.table, Reason: err.Error()}
		}

		tables[e.typeKey] = td.FullTableName()
	}

	return Mappings{tables: tables}, nil
}

// Builder returns a builder seeded with the current mappings. The receiver
// is left untouched.
func (m Mappings) Builder() *MappingsBuilder {
	b := NewMappingsBuilder()
	for _, k := range m.TypeKeys() {
		b.Map(k, m.tables[k])
	}
	return b
}

// TableName resolves typeKey to its schema-qualified table. An unregistered
// key yields a ConfigurationError.
func (m Mappings) TableName(typeKey string) (string, error) {
	if table, ok := m.tables[typeKey]; ok {
		return table, nil
	}

	return "", &ConfigurationError{
		TypeKey: typeKey,
		Reason:  "table name mapping is not found, register it with MappingsBuilder.Map",
	}
}

// TypeKeys returns the registered type keys in sorted order.
func (m Mappings) TypeKeys() []string {
	keys := make([]string, 0, len(m.tables))
	for k := range m.tables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m Mappings) Len() int {
	return len(m.tables)
}
