package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/proofline/internal/compose"
	"github.com/ppiankov/proofline/internal/llm"
	"github.com/ppiankov/proofline/internal/model"
	"github.com/ppiankov/proofline/internal/pipeline"
	"github.com/ppiankov/proofline/internal/store"
)

var (
	dailyMember    string
	dailyDate      string
	dailyDateRange string
	dailyClear     bool
	dailyJSON      bool
	dailyTimeout   time.Duration
)

// dailyCmd groups the daily update commands
var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Record daily updates and draft text from them",
	Long: `Daily updates are short notes each member files per working day.

They are stored next to weekly reports and can be polished by the model
provider, listed as a dated digest, or folded into a weekly summary.
Drafting commands need a configured provider.`,
}

var dailyAddCmd = &cobra.Command{
	Use:   "add [file|url|-]",
	Short: "Store a member's update for one day",
	Long: `Add stores the update for --member on --date, replacing any earlier
update for that day. --clear removes it instead.

Example:
  proofline daily add today.txt --member 张三
  echo "走访三家企业" | proofline daily add - --member 张三 --date 12.2
  proofline daily add --member 张三 --date 2024-12-02 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !dailyClear && len(args) == 0 {
			return errors.New("expected a source (file, url or -) or --clear")
		}

		day, err := compose.ParseDay(dailyDate, time.Now())
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		entry := &model.DailyEntry{Member: dailyMember, Date: day}
		if !dailyClear {
			doc, err := a.fetcher(false).Load(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load daily update: %w", err)
			}
			entry.Content = doc.Text
		}

		if err := a.store.SetDaily(ctx, entry); err != nil {
			return fmt.Errorf("store daily update: %w", err)
		}
		if entry.Content == "" {
			fmt.Printf("✓ Removed daily update for %s on %s\n", dailyMember, entry.Day())
			return nil
		}
		fmt.Printf("✓ Stored daily update for %s on %s\n", dailyMember, entry.Day())
		return nil
	},
}

var dailyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every member's update for one day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := compose.ParseDay(dailyDate, time.Now())
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		entries, err := a.store.DailyEntries(ctx, "", day, day)
		if err != nil {
			return err
		}
		if dailyJSON {
			return pipeline.NewRenderer(os.Stdout).JSON(entries)
		}

		fmt.Println(compose.Digest(day, entries))
		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No daily updates stored for this day")
		}
		return nil
	},
}

var dailyOptimizeCmd = &cobra.Command{
	Use:   "optimize <file|url|->",
	Short: "Polish a daily update with the model provider",
	Long: `Optimize rewrites a daily update into clean written Chinese, fixing
typos and punctuation without changing facts. The system prompt can be
replaced with the prompt_config field daily_optimize_prompt.

Example:
  echo "1.走访了三家企业,了解用工需求" | proofline daily optimize -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dailyContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		doc, err := a.fetcher(false).Load(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load daily update: %w", err)
		}

		text, err := a.composer().Optimize(ctx, doc.Text)
		if err != nil {
			return composeError(err)
		}
		fmt.Println(text)
		return nil
	},
}

// summaryResult is the JSON form of daily summary
type summaryResult struct {
	Member      string `json:"member"`
	DateRange   string `json:"date_range"`
	Start       string `json:"start"`
	End         string `json:"end"`
	ReportCount int    `json:"report_count"`
	Summary     string `json:"summary"`
}

var dailySummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Draft a weekly summary from a member's daily updates",
	Long: `Summary folds the stored daily updates of --member within --date-range
into a numbered weekly summary. The system prompt can be replaced with the
prompt_config field weekly_summary_prompt.

Example:
  proofline daily summary --member 张三 --date-range 12.2-12.6`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := dailyContext()
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		result, err := weeklySummary(ctx, a.store, a.composer(), dailyMember, dailyDateRange, time.Now())
		if err != nil {
			return composeError(err)
		}
		if dailyJSON {
			return pipeline.NewRenderer(os.Stdout).JSON(result)
		}

		fmt.Fprintf(os.Stderr, "Summarized %d daily updates (%s to %s)\n", result.ReportCount, result.Start, result.End)
		fmt.Println(result.Summary)
		return nil
	},
}

// weeklySummary loads member's updates within dateRange and drafts their summary
func weeklySummary(ctx context.Context, st store.Store, c *compose.Composer, member, dateRange string, ref time.Time) (*summaryResult, error) {
	start, end, err := compose.ParseDateRange(dateRange, ref)
	if err != nil {
		return nil, err
	}

	entries, err := st.DailyEntries(ctx, member, start, end)
	if err != nil {
		return nil, fmt.Errorf("load daily updates: %w", err)
	}

	summary, err := c.WeeklySummary(ctx, entries)
	if err != nil {
		return nil, err
	}

	return &summaryResult{
		Member:      member,
		DateRange:   dateRange,
		Start:       start.Format(model.DayLayout),
		End:         end.Format(model.DayLayout),
		ReportCount: len(entries),
		Summary:     summary,
	}, nil
}

func dailyContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, dailyTimeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// composeError explains a missing provider, which drafting cannot skip
func composeError(err error) error {
	if errors.Is(err, llm.ErrNotConfigured) {
		return fmt.Errorf("%w: set llm.provider and llm.api_key to draft text", err)
	}
	return err
}

func init() {
	rootCmd.AddCommand(dailyCmd)
	dailyCmd.AddCommand(dailyAddCmd, dailyShowCmd, dailyOptimizeCmd, dailySummaryCmd)

	today := time.Now().Format(model.DayLayout)
	for _, c := range []*cobra.Command{dailyAddCmd, dailyShowCmd} {
		c.Flags().StringVar(&dailyDate, "date", today, "day of the update, as 2006-01-02 or M.D")
	}
	for _, c := range []*cobra.Command{dailyAddCmd, dailySummaryCmd} {
		c.Flags().StringVar(&dailyMember, "member", "", "member who wrote the updates (required)")
		_ = c.MarkFlagRequired("member")
	}
	for _, c := range []*cobra.Command{dailyOptimizeCmd, dailySummaryCmd} {
		c.Flags().DurationVar(&dailyTimeout, "timeout", 2*time.Minute, "overall timeout")
	}

	dailyAddCmd.Flags().BoolVar(&dailyClear, "clear", false, "remove the update for the day")
	dailyShowCmd.Flags().BoolVar(&dailyJSON, "json", false, "write JSON instead of text")
	dailySummaryCmd.Flags().BoolVar(&dailyJSON, "json", false, "write JSON instead of text")
	dailySummaryCmd.Flags().StringVar(&dailyDateRange, "date-range", "", "period to summarize, e.g. 12.2-12.6")
	_ = dailySummaryCmd.MarkFlagRequired("date-range")
}
