package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quirk/internal/engine"
	"quirk/internal/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the canonical order and execution plan of a roster",
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := engine.LoadAttack(attackFile, transforms)
		if err != nil {
			return err
		}
		var opts []pipeline.Option
		if s := seedOverride(cmd); s != nil {
			opts = append(opts, pipeline.WithSeed(*s))
		}
		c, err := pipeline.FromSpec(f, opts...)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "seed %d\n", c.Seed())
		for i, t := range c.Order() {
			fmt.Fprintf(out, "%2d %-12s %s/%s %s\n", i, t.Name(), t.Scope(), t.Tier(), t.Params())
		}
		p := c.Plan()
		fmt.Fprintf(out, "%d steps, all pipeline: %t\n%s", p.StepCount(), p.AllPipeline(), p.Fingerprint())
		return nil
	},
}
