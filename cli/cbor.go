package cli

import (
	"io"

	"github.com/cxykevin/tinyjson/library/codec"
	"github.com/cxykevin/tinyjson/library/json"
	"github.com/cxykevin/tinyjson/library/varstr"
	"github.com/cxykevin/tinyjson/loader"
	"github.com/spf13/pflag"
)

func (a *App) cborCommand() *Command {
	return &Command{
		Name:    "cbor",
		Summary: "Convert documents to and from CBOR",
		Subcommands: []*Command{
			a.cborEncodeCommand(),
			a.cborDecodeCommand(),
			a.cborDiagCommand(),
		},
	}
}

// readBinary 读取未经文本预处理的输入
func (a *App) readBinary(args []string) ([]byte, error) {
	opts := loader.Options{MaxSize: a.Config.Parser.MaxDocumentSize}
	var (
		buf *varstr.Buffer
		err error
	)
	if len(args) == 0 || args[0] == "-" {
		buf, err = loader.Read(a.In, opts)
	} else {
		buf, err = loader.ReadFile(args[0], opts)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *App) cborEncodeCommand() *Command {
	var flags parseFlags
	return &Command{
		Name:    "encode",
		Summary: "Parse a JSON document and write its CBOR encoding",
		Usage:   "tinyjson cbor encode [flags] [file]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			a.registerParseFlags(fs, &flags)
			return fs
		},
		Run: func(args []string) error {
			if err := expectArgs(args, 0, 1, "tinyjson cbor encode [file]"); err != nil {
				return err
			}
			root, _, err := a.load(args, &flags)
			if err != nil {
				return err
			}
			defer root.Release()
			data, err := codec.EncodeCBOR(root)
			if err != nil {
				return err
			}
			_, err = a.Out.Write(data)
			return err
		},
	}
}

func (a *App) cborDecodeCommand() *Command {
	return &Command{
		Name:    "decode",
		Summary: "Read a CBOR document and print it as JSON",
		Usage:   "tinyjson cbor decode [file]",
		Run: func(args []string) error {
			if err := expectArgs(args, 0, 1, "tinyjson cbor decode [file]"); err != nil {
				return err
			}
			data, err := a.readBinary(args)
			if err != nil {
				return err
			}
			root, err := codec.DecodeCBOR(data)
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

func (a *App) cborDiagCommand() *Command {
	return &Command{
		Name:    "diag",
		Summary: "Print CBOR diagnostic notation",
		Usage:   "tinyjson cbor diag [file]",
		Run: func(args []string) error {
			if err := expectArgs(args, 0, 1, "tinyjson cbor diag [file]"); err != nil {
				return err
			}
			data, err := a.readBinary(args)
			if err != nil {
				return err
			}
			notation, err := codec.Diagnose(data)
			if err != nil {
				return err
			}
			_, err = io.WriteString(a.Out, notation)
			return err
		},
	}
}
