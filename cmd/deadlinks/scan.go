package main

import (
	"fmt"
	"strings"

	"github.com/foomo/deadlinks"
	"github.com/foomo/deadlinks/reports"
	"github.com/foomo/deadlinks/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root] [path]",
		Short: "Scan a folder or a single document and fail on broken references",
		Long: `Scan all html documents below root, or only the document or folder at path
relative to root. Exits with a non zero code when a reference is broken.`,
		Args: cobra.MaximumNArgs(2),
		RunE: runScan,
	}
	cmd.Flags().StringP("report", "r", reports.NameDocuments, "report to print: "+strings.Join(reports.Names(), ", "))
	cmd.Flags().String("prefix", "", "only report failures in documents with this prefix")
	cmd.Flags().StringSlice("reason", nil, "only report failures with these reasons")
	cmd.Flags().String("metrics-file", "", "write prometheus metrics to this text file")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
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
	reg := prometheus.NewRegistry()
	s, errScanner := deadlinks.NewScanner(conf,
		deadlinks.WithLogger(newLogger(cmd)),
		deadlinks.WithMetrics(deadlinks.NewMetrics(reg)),
	)
	if errScanner != nil {
		return errScanner
	}
	report, errScan := s.Scan(cmd.Context())
	if errScan != nil {
		return errScan
	}
	if metricsFile, _ := cmd.Flags().GetString("metrics-file"); metricsFile != "" {
		if errWrite := prometheus.WriteToTextfile(metricsFile, reg); errWrite != nil {
			return fmt.Errorf("could not write metrics: %w", errWrite)
		}
	}
	if !report.OK() {
		reportName, _ := cmd.Flags().GetString("report")
		prefix, _ := cmd.Flags().GetString("prefix")
		rawReasons, _ := cmd.Flags().GetStringSlice("reason")
		reasons := make([]vo.Reason, len(rawReasons))
		for i, rawReason := range rawReasons {
			reasons[i] = vo.Reason(rawReason)
		}
		if errWrite := reports.Write(reportName, report, cmd.OutOrStdout(),
			reports.FilterDocumentPrefix(prefix),
			reports.FilterReasons(reasons...),
		); errWrite != nil {
			return errWrite
		}
	}
	return report.Err()
}
