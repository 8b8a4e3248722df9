package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"secevents/internal/metrics"
	"secevents/internal/server"
	"secevents/internal/source"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve fresh reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := source.Parse(a.cfg.Source, a.cfg.Redis.Timeout)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			s := server.NewServer(src, metrics.New(reg), reg, a.logger)
			return s.Run(fmt.Sprintf(":%d", a.cfg.Server.Port))
		},
	}

	flags := cmd.Flags()
	flags.StringP("source", "s", "events.json", "file path or redis://host:port/db?key=<key>")
	flags.IntP("port", "p", 8080, "HTTP port")
	_ = a.v.BindPFlag("source", flags.Lookup("source"))
	_ = a.v.BindPFlag("server.port", flags.Lookup("port"))

	return cmd
}
