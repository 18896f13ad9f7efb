package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/export"
	"github.com/sells-group/lead-scout/internal/input"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score a list of websites and export the reports",
	Long: `Score every URL in an input file and export the reports.

The input is a text file with one URL per line (blank lines and lines
starting with # are skipped), or a CSV/XLSX file with a "url" column.

Examples:
  batch --input urls.txt
  batch --input leads.xlsx --concurrency 8 --output scored.xlsx
  batch --input urls.txt --renderer auto --format json --output scored.json --save`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("input", "", "file of URLs (txt, csv, xlsx)")
	f.Int("concurrency", 0, "max concurrent renders (default from config)")
	f.String("renderer", "", "renderer: http, chrome, rod, auto, file (default from config)")
	f.String("output", "", "export file (default from config)")
	f.String("format", "", "export format: csv, json, yaml, xlsx")
	f.Bool("save", false, "save reports to history")
	_ = batchCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inputPath, _ := cmd.Flags().GetString("input")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	rendererName, _ := cmd.Flags().GetString("renderer")
	outputPath, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")

	if outputPath == "" {
		outputPath = cfg.Export.Path
	}
	if concurrency <= 0 {
		concurrency = cfg.Batch.Concurrency
	}
	format, err := exportFormat(formatName, outputPath)
	if err != nil {
		return err
	}

	urls, err := input.ReadURLs(inputPath)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return eris.Errorf("batch: no URLs found in %s", inputPath)
	}

	env, err := initLead(ctx, cfg, rendererName, save)
	if err != nil {
		return err
	}
	defer env.Close()

	zap.L().Info("batch: starting",
		zap.String("input", inputPath),
		zap.Int("urls", len(urls)),
		zap.Int("concurrency", concurrency),
	)

	reports, failed := env.Service.ProduceBatch(ctx, urls, concurrency)

	formatBatchSummary(cmd.OutOrStdout(), reports, failed, cfg.Scorer)

	if err := export.Write(reports, outputPath, format); err != nil {
		return err
	}
	if len(reports) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "Saved %d reports to %s\n", len(reports), outputPath)
	}

	if len(reports) == 0 && len(failed) > 0 {
		return eris.Errorf("batch: all %d URLs failed", len(failed))
	}
	return ctx.Err()
}
