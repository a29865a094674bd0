package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quirk/internal/engine"
	"quirk/source"
)

var (
	inputPath   string
	inputFormat string
	jsonOut     bool
	numbered    bool
	metricsPort int
)

var applyCmd = &cobra.Command{
	Use:   "apply [input]",
	Short: "Corrupt text or transcripts from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			inputPath = args[0]
		}
		e, err := engine.Bootstrap(cmd.Context(), engine.Config{
			AttackFile:  attackFile,
			Transforms:  transforms,
			RuntimeFile: runtimeFile,
			Seed:        seedOverride(cmd),
			Format:      inputFormat,
			Input:       inputPath,
			Output:      cmd.OutOrStdout(),
			JSON:        jsonOut,
			Number:      numbered,
			MetricsPort: metricsPort,
		})
		if err != nil {
			return err
		}
		return e.Run(cmd.Context())
	},
}

func init() {
	f := applyCmd.Flags()
	f.StringVarP(&inputFormat, "format", "f", "text", fmt.Sprintf("input format (%v)", source.Names()))
	f.BoolVar(&jsonOut, "json", false, "write every record as a JSON line")
	f.BoolVarP(&numbered, "number", "n", false, "prefix every record with its sequence number")
	f.IntVar(&metricsPort, "metrics-port", 0, "serve prometheus metrics on this port (0 disables)")
}
