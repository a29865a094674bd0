package main

import (
	"github.com/spf13/cobra"
)

var (
	attackFile  string
	runtimeFile string
	transforms  []string
	seedFlag    uint64
)

var rootCmd = &cobra.Command{
	Use:   "quirk",
	Short: "Deterministic, composable text corruption",
	Long: `quirk applies a seeded roster of text transforms to strings and chat
transcripts. The same roster, seed and input always produce the same output.

The roster comes from an attack file (--config) or from repeated
--transform flags such as --transform "redact(rate=0.1)".`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&attackFile, "config", "c", "", "attack file (YAML)")
	pf.StringVar(&runtimeFile, "runtime", "", "runtime config file (YAML); QUIRK_* env-vars also apply")
	pf.StringArrayVarP(&transforms, "transform", "t", nil, `transform spec, e.g. "swap(rate=0.2)"; repeatable`)
	pf.Uint64Var(&seedFlag, "seed", 0, "master seed (overrides the attack file)")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(listCmd)
}

// seedOverride is nil unless --seed was given.
func seedOverride(cmd *cobra.Command) *uint64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	s := seedFlag
	return &s
}
