package main

import (
	"net/http"
	"time"

	"github.com/foomo/deadlinks"
	"github.com/foomo/deadlinks/reports"
	"github.com/foomo/deadlinks/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [root] [path]",
		Short: "Serve reports, every request runs a fresh scan",
		Args:  cobra.MaximumNArgs(2),
		RunE:  runServe,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	root, path := "", ""
	if len(args) > 0 {
		root = args[0]
	}
	if len(args) > 1 {
		path = args[1]
	}
	conf, errConf := loadConfig(cmd, root, path)
	if errConf != nil {
		return errConf
	}
	logger := newLogger(cmd)
	reg := prometheus.NewRegistry()
	s, errScanner := deadlinks.NewScanner(conf,
		deadlinks.WithLogger(logger),
		deadlinks.WithMetrics(deadlinks.NewMetrics(reg)),
	)
	if errScanner != nil {
		return errScanner
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/reports/", reports.GetReportHandler("/reports", func(r *http.Request) (*vo.ScanReport, error) {
		return s.Scan(r.Context())
	}))
	addr, _ := cmd.Flags().GetString("addr")
	logger.Info("serving reports", "addr", addr, "root", conf.Root)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
