package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/likearthian/kvstore"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init <type>",
		Short: "Create the table mapped to a document type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mappings, err := a.cfg.Mappings()
			if err != nil {
				return err
			}

			table, err := mappings.TableName(args[0])
			if err != nil {
				return err
			}

			store, err := kvstore.OpenStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			sqlStore, ok := store.(*kvstore.SQLStore)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "backend %s creates %s on first write\n", a.cfg.Backend, table)
				return nil
			}

			if err := sqlStore.CreateTable(cmd.Context(), table); err != nil {
				return fmt.Errorf("create table %s: %w", table, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "table %s ready\n", table)
			return nil
		},
	}
}

func newPutCmd(a *app) *cobra.Command {
	var mode string
	var newKey bool

	cmd := &cobra.Command{
		Use:   "put <type> [key] <json>",
		Short: "Write a document",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeKey := args[0]
			var key, body string
			switch {
			case newKey && len(args) == 2:
				key, body = uuid.NewString(), args[1]
			case !newKey && len(args) == 3:
				key, body = args[1], args[2]
			default:
				return errors.New("put takes <type> <key> <json>, or <type> <json> with --new-key")
			}

			if !json.Valid([]byte(body)) {
				return fmt.Errorf("document for key %s is not valid JSON", key)
			}

			store, coll, err := a.open(cmd.Context(), typeKey)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			doc := json.RawMessage(body)
			switch mode {
			case "insert":
				err = coll.Insert(ctx, key, doc)
			case "replace":
				err = coll.InsertOrReplace(ctx, key, doc)
			case "ignore":
				err = coll.InsertOrIgnore(ctx, key, doc)
			case "update":
				err = coll.Update(ctx, key, doc)
			default:
				return fmt.Errorf("unknown mode %q", mode)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "insert", "write mode: insert, replace, ignore, update")
	cmd.Flags().BoolVar(&newKey, "new-key", false, "generate a random UUID key")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <key>",
		Short: "Print one document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, coll, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := coll.GetOr(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			return printEntry(cmd.OutOrStdout(), args[1], doc)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var mustExist bool

	cmd := &cobra.Command{
		Use:   "delete <type> <key>",
		Short: "Delete one document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, coll, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			return coll.Delete(cmd.Context(), args[1], kvstore.ThrowOnNotFound(mustExist))
		},
	}

	cmd.Flags().BoolVar(&mustExist, "must-exist", false, "fail when the key is not stored")
	return cmd
}

type cursorFlags struct {
	fs     *pflag.FlagSet
	after  string
	before string
	limit  int
	desc   bool
}

func addCursorFlags(fs *pflag.FlagSet, f *cursorFlags) {
	f.fs = fs
	fs.StringVar(&f.after, "after", "", "only keys greater than this key")
	fs.StringVar(&f.before, "before", "", "only keys less than this key")
	fs.IntVarP(&f.limit, "limit", "n", 100, "maximum number of documents (1..1000)")
	fs.BoolVar(&f.desc, "desc", false, "largest keys first")
}

// cursor only bounds on flags that were given, so --after "" is a real bound.
func (f cursorFlags) cursor() kvstore.Cursor {
	c := kvstore.Cursor{Limit: f.limit, Ascending: !f.desc}
	if f.fs.Changed("after") {
		c.StartingAfter = kvstore.Bound(f.after)
	}
	if f.fs.Changed("before") {
		c.EndingBefore = kvstore.Bound(f.before)
	}
	return c
}

func newListCmd(a *app) *cobra.Command {
	var cf cursorFlags

	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "Print one page of documents ordered by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, coll, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := coll.QueryEntries(cmd.Context(), cf.cursor())
			if err != nil {
				return err
			}

			for _, e := range entries {
				if err := printEntry(cmd.OutOrStdout(), e.Key, e.Value); err != nil {
					return err
				}
			}
			return nil
		},
	}

	addCursorFlags(cmd.Flags(), &cf)
	return cmd
}

type exportLine struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func newExportCmd(a *app) *cobra.Command {
	var out string
	var pageSize int

	cmd := &cobra.Command{
		Use:   "export <type>",
		Short: "Write every document of a type as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}

			store, coll, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer store.Close()

			it, err := coll.Iterator(cmd.Context(), pageSize, true)
			if err != nil {
				return err
			}
			defer it.Close()

			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			count := 0
			for {
				e, err := it.Next()
				if errors.Is(err, kvstore.ErrIteratorDone) {
					break
				}
				if err != nil {
					return err
				}

				if err := enc.Encode(exportLine{Key: e.Key, Value: e.Value}); err != nil {
					return err
				}
				count++
			}

			if err := atomic.WriteFile(out, &buf); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			a.logger.Info("export finished", "type", args[0], "documents", count, "out", out)
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d documents to %s\n", count, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().IntVar(&pageSize, "page-size", 500, "documents per query (1..1000)")
	return cmd
}
