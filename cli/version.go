package cli

import (
	"fmt"

	"github.com/cxykevin/tinyjson/product"
)

func (a *App) versionCommand() *Command {
	return &Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			if err := expectArgs(args, 0, 0, "tinyjson version"); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.Out, product.UserAgent)
			return err
		},
	}
}
