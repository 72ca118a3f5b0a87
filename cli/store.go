package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/cxykevin/tinyjson/library/codec"
	"github.com/cxykevin/tinyjson/library/json"
	"github.com/cxykevin/tinyjson/library/varstr"
	"github.com/cxykevin/tinyjson/storage"
	"github.com/spf13/pflag"
)

// storeFlags 文档库位置与压缩算法
type storeFlags struct {
	db          string
	compression string
}

func (a *App) registerStoreFlags(fs *pflag.FlagSet, f *storeFlags) {
	fs.StringVar(&f.db, "db", a.Config.Storage.Path, "document database path")
	fs.StringVar(&f.compression, "compression", a.Config.Storage.Compression, "compression for saved documents: none, lz4 or zstd")
}

func (a *App) openStore(f *storeFlags) (*storage.Store, error) {
	compression, err := codec.ParseCompression(f.compression)
	if err != nil {
		return nil, err
	}
	return storage.Open(f.db, compression)
}

// withStore 打开文档库，执行 fn 后关闭
func (a *App) withStore(f *storeFlags, fn func(*storage.Store) error) error {
	store, err := a.openStore(f)
	if err != nil {
		return err
	}
	err = fn(store)
	if closeErr := store.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (a *App) storeCommand() *Command {
	return &Command{
		Name:    "store",
		Summary: "Save, load, list and remove named documents",
		Subcommands: []*Command{
			a.storeSaveCommand(),
			a.storeLoadCommand(),
			a.storeListCommand(),
			a.storeRemoveCommand(),
		},
	}
}

func (a *App) storeSaveCommand() *Command {
	var (
		parse parseFlags
		store storeFlags
	)
	return &Command{
		Name:    "save",
		Summary: "Parse a document and save it under a name",
		Usage:   "tinyjson store save [flags] <name> [file]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("save", pflag.ContinueOnError)
			a.registerParseFlags(fs, &parse)
			a.registerStoreFlags(fs, &store)
			return fs
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 1, 2, "tinyjson store save <name> [file]"); err != nil {
				return err
			}
			root, _, err := a.load(args[1:], &parse)
			if err != nil {
				return err
			}
			defer root.Release()
			return a.withStore(&store, func(s *storage.Store) error {
				return s.Save(args[0], root)
			})
		},
	}
}

func (a *App) storeLoadCommand() *Command {
	var store storeFlags
	return &Command{
		Name:    "load",
		Summary: "Print a saved document",
		Usage:   "tinyjson store load [flags] <name>",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("load", pflag.ContinueOnError)
			a.registerStoreFlags(fs, &store)
			return fs
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 1, 1, "tinyjson store load <name>"); err != nil {
				return err
			}
			return a.withStore(&store, func(s *storage.Store) error {
				root, err := s.Load(args[0])
				if err != nil {
					return err
				}
				defer root.Release()
				out := varstr.New()
				if err := json.Serialize(root, out); err != nil {
					return err
				}
				return a.emit(out.Bytes())
			})
		},
	}
}

func (a *App) storeListCommand() *Command {
	var store storeFlags
	return &Command{
		Name:    "list",
		Summary: "List saved documents",
		Usage:   "tinyjson store list [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
			a.registerStoreFlags(fs, &store)
			return fs
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 0, 0, "tinyjson store list"); err != nil {
				return err
			}
			return a.withStore(&store, func(s *storage.Store) error {
				list, err := s.List()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.Out, 2, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "NAME\tSIZE\tSTORED\tCOMPRESSION\tDIGEST\tUPDATED\n")
				for _, d := range list {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%.12s\t%s\n",
						d.Name, d.Size, d.Stored, d.Compression, d.Digest, d.UpdatedAt.Format("2006-01-02 15:04:05"))
				}
				return tw.Flush()
			})
		},
	}
}

func (a *App) storeRemoveCommand() *Command {
	var store storeFlags
	return &Command{
		Name:    "rm",
		Summary: "Remove saved documents",
		Usage:   "tinyjson store rm [flags] <name>...",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("rm", pflag.ContinueOnError)
			a.registerStoreFlags(fs, &store)
			return fs
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: tinyjson store rm <name>...")
			}
			return a.withStore(&store, func(s *storage.Store) error {
				for _, name := range args {
					if err := s.Delete(name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
