package cli

import (
	"fmt"

	"github.com/cxykevin/tinyjson/library/json"
	"github.com/cxykevin/tinyjson/library/varstr"
	"github.com/cxykevin/tinyjson/query"
	"github.com/spf13/pflag"
)

func (a *App) fmtCommand() *Command {
	var flags parseFlags
	return &Command{
		Name:    "fmt",
		Summary: "Parse a document and print it compactly",
		Description: `Parse a document and print its compact serialization.

Members are printed in chain order, which is the reverse of their order
in the input, so formatting twice restores the original order.`,
		Usage: "tinyjson fmt [flags] [file]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("fmt", pflag.ContinueOnError)
			a.registerParseFlags(fs, &flags)
			return fs
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 0, 1, "tinyjson fmt [file]"); err != nil {
				return err
			}
			root, _, err := a.load(args, &flags)
			if err != nil {
				return err
			}
			defer root.Release()

			out := varstr.New()
			if err := json.Serialize(root, out); err != nil {
				return err
			}
			return a.emit(out.Bytes())
		},
	}
}

func (a *App) findCommand() *Command {
	var flags parseFlags
	return &Command{
		Name:    "find",
		Summary: "Print the value at a '>'-delimited path",
		Description: `Look up a value by a path of member names separated by '>'.

Names are matched case-insensitively against their escaped form. The
matched value is printed together with its name.`,
		Usage: "tinyjson find [flags] <file> <path>",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("find", pflag.ContinueOnError)
			a.registerParseFlags(fs, &flags)
			return fs
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 2, 2, "tinyjson find <file> <path>"); err != nil {
				return err
			}
			root, opts, err := a.load(args[:1], &flags)
			if err != nil {
				return err
			}
			defer root.Release()

			v, err := json.LookupIn(root, args[1], opts)
			if err != nil {
				return err
			}
			out := varstr.New()
			if err := json.SerializeValue(v, out); err != nil {
				return err
			}
			return a.emit(out.Bytes())
		},
	}
}

func (a *App) filterCommand() *Command {
	var flags parseFlags
	return &Command{
		Name:    "filter",
		Summary: "Print the children of a container matching an expression",
		Description: `Evaluate a boolean expression against every direct child of the
container at <path> and print each match on its own line.

Variables: name, raw_name, kind, number, real, boolean, text, size, anonymous.`,
		Usage: "tinyjson filter [flags] <file> <path> <expr>",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("filter", pflag.ContinueOnError)
			a.registerParseFlags(fs, &flags)
			return fs
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 3, 3, "tinyjson filter <file> <path> <expr>"); err != nil {
				return err
			}
			predicate, err := query.Compile(args[2])
			if err != nil {
				return err
			}
			root, opts, err := a.load(args[:1], &flags)
			if err != nil {
				return err
			}
			defer root.Release()

			container, err := json.LookupIn(root, args[1], opts)
			if err != nil {
				return err
			}
			if !container.IsContainer() {
				return fmt.Errorf("%w: %q is a %s", json.ErrNotContainer, args[1], container.Kind())
			}
			matches, err := predicate.Filter(container.Children())
			if err != nil {
				return err
			}

			out := varstr.New()
			for _, v := range matches {
				if err := json.SerializeValue(v, out); err != nil {
					return err
				}
				if err := out.AppendByte('\n'); err != nil {
					return err
				}
			}
			_, err = a.Out.Write(out.Bytes())
			return err
		},
	}
}
