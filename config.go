package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

const (
	BackendPostgres = "postgres"
	BackendSqlite   = "sqlite"
	BackendMongo    = "mongo"
)

// Config describes a backend connection and its table mappings.
type Config struct {
	Backend       string            `yaml:"backend" json:"backend"`
	Postgres      PGConfig          `yaml:"postgres" json:"postgres"`
	Sqlite        SqliteConfig      `yaml:"sqlite" json:"sqlite"`
	Mongo         MongoConfig       `yaml:"mongo" json:"mongo"`
	DefaultSchema string            `yaml:"default_schema" json:"default_schema"`
	Tables        map[string]string `yaml:"tables" json:"tables"`
}

type SqliteConfig struct {
	Path string `yaml:"path" json:"path"`
}

type MongoConfig struct {
	URI      string `yaml:"uri" json:"uri"`
	Database string `yaml:"database" json:"database"`
}

// LoadConfig reads a YAML (.yaml, .yml) or JSON-with-comments (.json,
// .hujson) config file.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json", ".hujson":
		data, err = hujson.Standardize(data)
		if err == nil {
			err = json.Unmarshal(data, &cfg)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported extension", path)
	}

	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Mappings builds the table mappings of the config. A type key with an
// empty table maps to default_schema.snake_case(typeKey).
func (c Config) Mappings() (Mappings, error) {
	keys := make([]string, 0, len(c.Tables))
	for k := range c.Tables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := NewMappingsBuilder()
	for _, k := range keys {
		table := c.Tables[k]
		if table == "" {
			table = strcase.ToSnake(k)
			if c.DefaultSchema != "" {
				table = c.DefaultSchema + "." + table
			}
		}
		b.Map(k, table)
	}

	return b.Build()
}

// OpenStore connects to the configured backend.
func OpenStore(ctx context.Context, c Config) (Store, error) {
	switch c.Backend {
	case BackendPostgres, "":
		db, err := ConnectPostgresql(c.Postgres)
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return NewSQLStore(db)
	case BackendSqlite:
		db, err := ConnectSqlite(c.Sqlite.Path)
		if err != nil {
			return nil, err
		}
		store, err := NewSQLStore(db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return store, nil
	case BackendMongo:
		db, err := ConnectMongo(ctx, c.Mongo.URI, c.Mongo.Database)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(db), nil
	}

	return nil, fmt.Errorf("unsupported backend %q", c.Backend)
}
