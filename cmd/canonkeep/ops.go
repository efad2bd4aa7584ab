package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newOpsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List every operation and the agent types allowed to call it",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, matrix, err := buildDispatchTable()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tSTORE\tALLOWED")
			for _, name := range registry.Names() {
				op, _ := registry.Get(name)
				allowed := "-"
				if agents, ok := matrix.AllowedAgents(name); ok {
					allowed = ""
					for i, a := range agents {
						if i > 0 {
							allowed += ","
						}
						allowed += string(a)
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", op.Name, op.Store, allowed)
			}
			return w.Flush()
		},
	}
}
