// Package cli implements the kvctl commands on top of the kvstore library.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/likearthian/kvstore"
)

// rawDoc keeps documents as the JSON text the user typed.
var rawDoc = kvstore.NewDocumentType[json.RawMessage]

type globalFlags struct {
	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string
}

type app struct {
	flags  globalFlags
	cfg    kvstore.Config
	logger *slog.Logger
}

// NewRootCommand builds the kvctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "kvctl",
		Short:         "Inspect and edit key-value document tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	addGlobalFlags(root.PersistentFlags(), &a.flags)

	root.AddCommand(
		newInitCmd(a),
		newPutCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newExportCmd(a),
	)

	return root
}

func addGlobalFlags(fs *pflag.FlagSet, f *globalFlags) {
	fs.StringVarP(&f.configPath, "config", "c", "kvstore.yaml", "config file (.yaml, .yml, .json, .hujson)")
	fs.StringSliceVar(&f.envFiles, "env-file", []string{".env"}, "dotenv files loaded before the config")
	fs.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "text", "log format: text or json")
}

func (a *app) load(logOut io.Writer) error {
	a.logger = newLogger(a.flags.logLevel, a.flags.logFormat, logOut)

	if err := kvstore.LoadEnv(a.flags.envFiles...); err != nil {
		return err
	}

	cfg, err := kvstore.LoadConfig(a.flags.configPath)
	if err != nil {
		return err
	}

	if cfg.Backend == kvstore.BackendPostgres || cfg.Backend == "" {
		if cfg.Postgres.Password == "" {
			cfg.Postgres.Password = kvstore.PGConfigFromEnv("KVSTORE_PG_").Password
		}
	}

	a.cfg = cfg
	return nil
}

// open connects to the backend and returns the collection of raw documents
// for typeKey.
func (a *app) open(ctx context.Context, typeKey string) (kvstore.Store, *kvstore.Collection[json.RawMessage], error) {
	mappings, err := a.cfg.Mappings()
	if err != nil {
		return nil, nil, err
	}

	store, err := kvstore.OpenStore(ctx, a.cfg)
	if err != nil {
		return nil, nil, err
	}

	repo := kvstore.NewRepository(store, mappings, kvstore.WithLogger(a.logger))
	return store, kvstore.For(repo, rawDoc(typeKey)), nil
}

func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

func printEntry(w io.Writer, key string, value json.RawMessage) error {
	_, err := fmt.Fprintf(w, "%s\t%s\n", key, value)
	return err
}
