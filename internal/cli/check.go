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
)

var (
	checkStream  bool
	checkJSON    bool
	checkOut     string
	checkTimeout time.Duration
	noCache      bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file|url|->",
	Short: "Proofread one report",
	Long: `Check proofreads a report read from a file, an http(s) URL or stdin ("-").

The report should contain the section headings 本周工作 and 下周计划.
Rule issues are always reported. Model-backed typo and punctuation passes
run when a provider is configured.

Example:
  proofline check weekly.txt
  proofline check https://intranet.example.com/reports/42 --json
  cat weekly.txt | proofline check - --stream`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkStream, "stream", false, "print progress for every stage as it runs")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "write JSON instead of text")
	checkCmd.Flags().StringVar(&checkOut, "out", "", "write output to a file instead of stdout")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache for URL sources (force fresh fetch)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	// 1. Load
	doc, err := a.fetcher(!noCache).Load(ctx, source)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %s (%d characters, cached: %v)\n", source, len([]rune(doc.Text)), doc.FromCache)
	}

	out, closeOut, err := openOutput(checkOut)
	if err != nil {
		return err
	}
	defer func() { _ = closeOut() }()
	renderer := pipeline.NewRenderer(out)

	// 2. Check
	p := a.pipeline()
	if checkStream {
		return streamCheck(ctx, p, renderer, doc.Text)
	}

	result, err := p.CheckBatch(ctx, doc.Text)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	// 3. Render
	if checkJSON {
		return renderer.JSON(result)
	}
	return renderer.Result(result)
}

// streamCheck renders stage events as they arrive. Failed stages are
// reported inline and the check continues; a stream that ends without a
// done event was cancelled.
func streamCheck(ctx context.Context, p *pipeline.Pipeline, renderer *pipeline.Renderer, text string) error {
	var (
		final  *model.CheckResult
		failed int
	)

	for ev := range p.CheckStream(ctx, text) {
		if ev.Failed() {
			failed++
		}
		if ev.Stage == model.StageDone {
			final = ev.Result
		}

		var err error
		if checkJSON {
			err = renderer.JSON(ev)
		} else {
			err = renderer.Event(ev)
		}
		if err != nil {
			return err
		}
	}

	if final == nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("check cancelled: %w", err)
		}
		return fmt.Errorf("check ended without a result")
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d stage(s) failed, the result is incomplete\n", failed)
	}
	if checkJSON {
		return nil
	}
	return renderer.Result(*final)
}
