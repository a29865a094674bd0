package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quirk/internal/zoo"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in transforms",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		for _, name := range zoo.Names() {
			k, _ := zoo.Lookup(name)
			fmt.Fprintf(out, "%-12s %s/%s  %s  [%s]\n", k.Name, k.Scope, k.Tier, k.Doc, strings.Join(k.Schema.Keys(), ", "))
		}
	},
}
