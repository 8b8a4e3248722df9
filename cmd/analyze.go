package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"secevents/internal/pipeline"
	"secevents/internal/report"
	"secevents/internal/source"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [source]",
		Short: "Analyze an events document once and print the report",
		Long: `Analyze loads the events document, prints the signature distribution with
summary statistics and hourly activity, and optionally writes text charts.

The source is a file path or redis://host:port/db?key=<key>. It defaults to
the configured source (events.json).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri := a.cfg.Source
			if len(args) == 1 {
				uri = args[0]
			}

			src, err := source.Parse(uri, a.cfg.Redis.Timeout)
			if err != nil {
				return err
			}

			sinks := []pipeline.Sink{report.NewConsole(cmd.OutOrStdout(), a.cfg.Output.Format)}
			var charts *report.Charts
			if a.cfg.Output.Dir != "" {
				charts = report.NewCharts(a.cfg.Output.Dir, a.cfg.Output.TopN)
				sinks = append(sinks, charts)
			}

			if _, err := pipeline.New(nil, a.logger, sinks...).Run(cmd.Context(), src); err != nil {
				return err
			}

			if charts != nil {
				for _, path := range charts.Written() {
					a.logger.Info("Chart saved", zap.String("path", path))
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", "text", "report format: text, json, yaml")
	flags.StringP("output-dir", "o", "", "directory for chart files (disabled when empty)")
	flags.Int("top", 8, "signatures shown before folding the rest into Other")
	_ = a.v.BindPFlag("output.format", flags.Lookup("format"))
	_ = a.v.BindPFlag("output.dir", flags.Lookup("output-dir"))
	_ = a.v.BindPFlag("output.top_n", flags.Lookup("top"))

	return cmd
}
