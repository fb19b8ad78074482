package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/damap/syntax/treesitter"
)

func newParseCmd() *cobra.Command {
	var outline bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .java file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := treesitter.ParseFile(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			if outline {
				for _, decl := range f.Declarations() {
					depth := 0
					for o := decl.Outer(); o != nil; o = o.Outer() {
						depth++
					}
					fmt.Fprintf(out, "%*s%s %s %s\n", depth*2, "", declKind(decl), decl.Name(), decl.NameSpan().Start)
				}
			} else {
				fmt.Fprintln(out, f.Tree())
			}

			for _, e := range f.Errors() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s\n", args[0], e)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outline, "outline", false, "list the declared classes instead of the tree")

	return cmd
}

func declKind(c *treesitter.Class) string {
	switch {
	case c.IsEnum():
		return "enum"
	case c.IsAnnotationType():
		return "@interface"
	case c.IsInterface():
		return "interface"
	default:
		return "class"
	}
}
