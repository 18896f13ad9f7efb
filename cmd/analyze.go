package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-scout/internal/export"
	"github.com/sells-group/lead-scout/internal/model"
)

// errEmptyURL is shown when no URL was entered.
var errEmptyURL = eris.New("please enter a valid URL")

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Score a single website as a lead",
	Long: `Render a website, extract contact and technology signals, and print its lead score.

Examples:
  # Score a site with the default HTTP renderer
  analyze https://acme.io

  # Render with headless Chrome and save the report as JSON
  analyze https://acme.io --renderer chrome --output acme.json

  # Print the raw report and keep it in history
  analyze https://acme.io --json --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.String("renderer", "", "renderer: http, chrome, rod, auto, file (default from config)")
	f.String("output", "", "export the report to this file")
	f.String("format", "", "export format: csv, json, yaml, xlsx (default from --output extension)")
	f.Bool("save", false, "save the report to history")
	f.Bool("json", false, "print the report as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var url string
	if len(args) > 0 {
		url = strings.TrimSpace(args[0])
	}
	if url == "" {
		return errEmptyURL
	}

	rendererName, _ := cmd.Flags().GetString("renderer")
	outputPath, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")

	format, err := exportFormat(formatName, outputPath)
	if err != nil {
		return err
	}

	env, err := initLead(ctx, cfg, rendererName, save)
	if err != nil {
		return err
	}
	defer env.Close()

	report, err := env.Service.ProduceReport(ctx, url)
	if err != nil {
		return err
	}

	if err := printReport(cmd.OutOrStdout(), *report, asJSON); err != nil {
		return err
	}

	if outputPath != "" {
		if err := export.Write([]model.LeadReport{*report}, outputPath, format); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stderr, "Report saved to %s\n", outputPath)
	}
	return nil
}

func printReport(out io.Writer, report model.LeadReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	formatReport(out, report, cfg.Scorer)
	return nil
}

// exportFormat resolves an explicit --format or infers one from path.
func exportFormat(name, path string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}
	if path != "" {
		return export.FormatFromPath(path), nil
	}
	return export.Format(cfg.Export.Format), nil
}
