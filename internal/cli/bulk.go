package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/pipeline"
	"github.com/ppiankov/proofline/internal/worker"
)

var (
	bulkFile    string
	bulkJSON    bool
	bulkTimeout time.Duration
)

// bulkCmd represents the bulk command
var bulkCmd = &cobra.Command{
	Use:   "bulk [ids...]",
	Short: "Check stored reports one after another",
	Long: `Bulk checks stored reports and saves each result back to the store.

Reports are processed sequentially. A report that cannot be loaded, checked
or saved is counted as failed and the run continues. Without ids, every
report still in status "submitted" is checked.

Example:
  proofline bulk 1 2 3
  proofline bulk --file ids.txt
  proofline bulk --timeout 30m`,
	RunE: runBulk,
}

func init() {
	rootCmd.AddCommand(bulkCmd)

	bulkCmd.Flags().StringVar(&bulkFile, "file", "", "read report ids from a file (one per line, # comments)")
	bulkCmd.Flags().BoolVar(&bulkJSON, "json", false, "write the summary as JSON")
	bulkCmd.Flags().DurationVar(&bulkTimeout, "timeout", 30*time.Minute, "total timeout for the run")
}

func runBulk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ids, err := bulkIDs(ctx, a, args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "No reports to check")
		return nil
	}

	fmt.Fprintf(os.Stderr, "⚙️  Checking %d reports...\n", len(ids))
	start := time.Now()

	summary := a.pipeline().CheckBulk(ctx, ids, a.store.Report, a.store.SaveResult)

	if verbose {
		fmt.Fprintf(os.Stderr, "Finished in %v\n", time.Since(start).Round(time.Millisecond))
	}

	renderer := pipeline.NewRenderer(os.Stdout)
	if bulkJSON {
		return renderer.JSON(summary)
	}
	return renderer.Bulk(summary)
}

// bulkIDs resolves ids from arguments, the --file flag, or the pending reports
func bulkIDs(ctx context.Context, a *app, args []string) ([]int64, error) {
	var ids []int64

	if len(args) > 0 {
		parsed, err := worker.ParseIDs(args)
		if err != nil {
			return nil, err
		}
		ids = append(ids, parsed...)
	}
	if bulkFile != "" {
		fromFile, err := worker.ReadIDsFromFile(bulkFile)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fromFile...)
	}
	if len(args) > 0 || bulkFile != "" {
		return ids, nil
	}

	reports, err := a.store.Reports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	for _, r := range reports {
		if r.Status == model.StatusSubmitted {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}
