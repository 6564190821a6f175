package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"
)

type PGConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     string `yaml:"port" json:"port"`
	Database string `yaml:"database" json:"database"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	SSLMode  string `yaml:"sslmode" json:"sslmode"`
	// Driver is "pgx" (default) or "postgres" for lib/pq.
	Driver string `yaml:"driver" json:"driver"`
}

func (c PGConfig) ConnString() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}

func ConnectPostgresql(config PGConfig) (*sqlx.DB, error) {
	driver := config.Driver
	if driver == "" {
		driver = "pgx"
	}

	if driver != "pgx" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported postgres driver %q", driver)
	}

	return sqlx.Open(driver, config.ConnString())
}

// PGConfigFromEnv reads PGConfig fields from prefixed environment variables,
// e.g. prefix "KVSTORE_PG_" reads KVSTORE_PG_HOST.
func PGConfigFromEnv(prefix string) PGConfig {
	return PGConfig{
		Host:     os.Getenv(prefix + "HOST"),
		Port:     envOr(prefix+"PORT", "5432"),
		Database: os.Getenv(prefix + "DATABASE"),
		User:     os.Getenv(prefix + "USER"),
		Password: os.Getenv(prefix + "PASSWORD"),
		SSLMode:  os.Getenv(prefix + "SSLMODE"),
		Driver:   os.Getenv(prefix + "DRIVER"),
	}
}

// LoadEnv loads dotenv files into the process environment. Missing files
// are skipped; variables already set are kept.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

func ConnectSqlite(path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// a single writer avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)
	return db, nil
}

func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(database), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
