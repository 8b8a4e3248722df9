package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"secevents/internal/seeder"
)

func newSeedCmd() *cobra.Command {
	var (
		count  int
		out    string
		seed   int64
		spread time.Duration
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a sample events document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := seeder.Generate(seeder.Options{Count: count, Seed: seed, Spread: spread})
			if err != nil {
				return err
			}
			if err := seeder.WriteFile(out, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", len(doc.Events), out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 500, "number of events")
	cmd.Flags().StringVarP(&out, "out", "o", "events.json", "output file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 for a random one)")
	cmd.Flags().DurationVar(&spread, "spread", 24*time.Hour, "time span covered by the events")

	return cmd
}
