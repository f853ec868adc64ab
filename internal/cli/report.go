package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/ppiankov/proofline/internal/extract"
	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/pipeline"
	"github.com/ppiankov/proofline/internal/worker"
)

var (
	reportName      string
	reportDateRange string
	reportJSON      bool
)

// reportCmd groups the stored report commands
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage stored reports",
	Long: `Store reports for later bulk checking and show their results.

Reports are kept in the SQLite database configured by store.path, or in
memory for the lifetime of the process when no path is set.`,
}

var reportAddCmd = &cobra.Command{
	Use:   "add <file|url|->",
	Short: "Store a report",
	Long: `Add reads a report, splits it at the 本周工作 and 下周计划 headings and
stores it with status "submitted".

Example:
  proofline report add weekly.txt --name 张三 --date-range 11.29-12.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		doc, err := a.fetcher(true).Load(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load report: %w", err)
		}

		current, next := extract.Sections(doc.Text)
		id, err := a.store.AddReport(ctx, &model.Report{
			Name:        reportName,
			DateRange:   reportDateRange,
			CurrentWork: current,
			NextPlan:    next,
		})
		if err != nil {
			return fmt.Errorf("store report: %w", err)
		}

		fmt.Printf("✓ Stored report %d\n", id)
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored report and its last check result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := worker.ParseIDs(args)
		if err != nil {
			return err
		}
		if len(ids) != 1 {
			return fmt.Errorf("expected one report id, got %q", args[0])
		}

		ctx := context.Background()
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		report, err := a.store.Report(ctx, ids[0])
		if err != nil {
			return err
		}

		renderer := pipeline.NewRenderer(os.Stdout)
		if reportJSON {
			return renderer.JSON(report)
		}

		fmt.Printf("Report %d · %s · %s · %s\n\n", report.ID, report.Name, report.DateRange, report.Status)
		fmt.Println(report.Content())
		if report.CheckResult == nil {
			fmt.Println("\nNot checked yet")
			return nil
		}
		fmt.Println()
		return renderer.Result(*report.CheckResult)
	},
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		reports, err := a.store.Reports(ctx)
		if err != nil {
			return err
		}
		if reportJSON {
			return pipeline.NewRenderer(os.Stdout).JSON(reports)
		}

		for _, r := range reports {
			issues := "-"
			if r.CheckResult != nil {
				issues = fmt.Sprintf("%d", r.CheckResult.Count)
			}
			fmt.Printf("%5d  %s  %s  %-9s  %s\n",
				r.ID,
				runewidth.FillRight(runewidth.Truncate(r.Name, 12, "…"), 12),
				runewidth.FillRight(r.DateRange, 12),
				r.Status,
				issues)
		}
		if len(reports) == 0 {
			fmt.Fprintln(os.Stderr, "No reports stored")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportAddCmd, reportShowCmd, reportListCmd)

	reportAddCmd.Flags().StringVar(&reportName, "name", "", "member who wrote the report (required)")
	reportAddCmd.Flags().StringVar(&reportDateRange, "date-range", "", "reporting period, e.g. 11.29-12.5")
	_ = reportAddCmd.MarkFlagRequired("name")

	for _, c := range []*cobra.Command{reportShowCmd, reportListCmd} {
		c.Flags().BoolVar(&reportJSON, "json", false, "write JSON instead of text")
	}
}
