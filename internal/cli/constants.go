package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockrender/pkg/render/block/constants"
)

// constantsCommand prints renderer constants as TOML, ready to be edited and
// passed back with --constants.
func (c *CLI) constantsCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "constants [renderer]",
		Short: "Print renderer constants as TOML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range constants.Renderers() {
					mark := "  "
					if name == constants.DefaultRenderer {
						mark = StyleDim.Render("* ")
					}
					fmt.Println(mark + StyleValue.Render(name))
				}
				return nil
			}

			renderer := c.renderer
			if len(args) == 1 {
				renderer = args[0]
			}
			path := c.constants
			if len(args) == 1 {
				path = ""
			}
			set, err := constants.Select(renderer, path)
			if err != nil {
				return err
			}
			return constants.Encode(os.Stdout, set)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list built-in renderers")
	return cmd
}
