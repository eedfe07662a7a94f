// flipctl is a terminal front end for a local flip log: import exported
// trade logs, record flips by hand and watch the climb toward max cash.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simaogato/fliptrack-backend/internal/adapter/repository/csvfile"
	"github.com/simaogato/fliptrack-backend/internal/domain"
	"github.com/simaogato/fliptrack-backend/internal/parser"
	"github.com/simaogato/fliptrack-backend/internal/usecase/analytics"
	"github.com/simaogato/fliptrack-backend/internal/usecase/importer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flipctl",
		Short: "Track flipping progress from 1,000 gp to max cash",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viper.SetEnvPrefix("flipctl")
			viper.AutomaticEnv()
			viper.BindPFlags(cmd.Flags())
			viper.BindPFlags(cmd.Root().PersistentFlags())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("data-dir", defaultDataDir(), "directory holding the local flip log")
	pf.Int64("starting-balance", 1_000, "challenge starting balance in gp")
	pf.Int64("target", 2_147_000_000, "target cash ceiling in gp")
	viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
	viper.BindPFlag("starting_balance", pf.Lookup("starting-balance"))
	viper.BindPFlag("target", pf.Lookup("target"))

	rootCmd.AddCommand(
		newAddCmd(),
		newImportCmd(),
		newDailyCmd(),
		newTopCmd(),
		newEtaCmd(),
		newResetCmd(),
	)
	return rootCmd
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fliptrack"
	}
	return home + "/.fliptrack"
}

func openRepo() (domain.FlipRepository, error) {
	return csvfile.NewFlipRepository(viper.GetString("data_dir"))
}

func newAnalytics() *analytics.Service {
	return analytics.NewService(viper.GetInt64("starting_balance"), viper.GetInt64("target"))
}

func newAddCmd() *cobra.Command {
	var entry parser.ManualEntry
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a single flip by hand",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo()
			if err != nil {
				return err
			}

			svc := importer.NewService(repo, 0)
			flip, err := svc.AddManual(context.Background(), entry)
			if err != nil {
				return err
			}

			fmt.Printf("Recorded %s x%d (%s gp profit)\n",
				flip.Item, flip.Qty, formatGP(flip.Profit()))
			return nil
		},
	}
	cmd.Flags().StringVar(&entry.Item, "item", "", "item name (required)")
	cmd.Flags().Int64Var(&entry.Qty, "qty", 0, "quantity traded")
	cmd.Flags().Float64Var(&entry.BuyPrice, "buy", 0, "per-unit buy price")
	cmd.Flags().Float64Var(&entry.SellPrice, "sell", 0, "per-unit sell price, net of tax")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		source string
		taxPct float64
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import an exported trade log (generic CSV or RuneLite export)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			repo, err := openRepo()
			if err != nil {
				return err
			}

			svc := importer.NewService(repo, taxPct/100)
			flips, err := svc.Import(context.Background(), importer.ImportInput{
				Source: importer.Source(source),
				Raw:    string(raw),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d flips from %s\n", len(flips), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", string(importer.SourceRuneLite), "import source: csv or runelite")
	cmd.Flags().Float64Var(&taxPct, "tax", 2, "exchange tax percentage for offer logs")
	return cmd
}

func newDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show the daily summary log, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo()
			if err != nil {
				return err
			}
			flips, err := repo.List(context.Background())
			if err != nil {
				return err
			}

			daily := newAnalytics().DailySummaries(flips)
			if len(daily) == 0 {
				fmt.Println("No flips recorded yet.")
				return nil
			}

			tw := newTable()
			tw.AppendHeader(table.Row{"DATE", "FLIPS", "ITEMS", "PROFIT", "NET WORTH", "GROWTH", "PROGRESS"})
			for _, d := range daily {
				tw.AppendRow(table.Row{
					d.Date,
					d.Flips,
					d.Items,
					formatGP(d.Profit),
					formatGP(d.NetWorth),
					formatPct(d.GrowthPct),
					formatPct(d.ProgressPct),
				})
			}
			tw.Render()
			return nil
		},
	}
}

func newTopCmd() *cobra.Command {
	var filter analytics.LeaderboardFilter
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the item leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo()
			if err != nil {
				return err
			}
			flips, err := repo.List(context.Background())
			if err != nil {
				return err
			}

			svc := newAnalytics()
			rows := analytics.ApplyLeaderboardFilter(svc.Leaderboard(flips), filter)
			if len(rows) == 0 {
				fmt.Println("Nothing to rank.")
				return nil
			}

			tw := newTable()
			tw.AppendHeader(table.Row{"ITEM", "FLIPS", "ROI", "PROFIT"})
			for _, r := range rows {
				profit := formatGP(r.Profit)
				if r.Profit < 0 {
					profit = text.Colors{text.FgRed}.Sprint(profit)
				}
				tw.AppendRow(table.Row{r.Item, r.Flips, formatPct(r.RoiPct), profit})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.SortBy, "sort", analytics.SortByProfit, "sort order: profit or roi")
	cmd.Flags().BoolVar(&filter.WinnersOnly, "winners", false, "only items with positive profit")
	cmd.Flags().StringVar(&filter.Search, "search", "", "case-insensitive item filter")
	return cmd
}

func newEtaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eta",
		Short: "Estimate days remaining until the target ceiling",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo()
			if err != nil {
				return err
			}
			flips, err := repo.List(context.Background())
			if err != nil {
				return err
			}

			svc := newAnalytics()
			days, ok := svc.ProjectionHorizon(svc.DailySummaries(flips))
			if !ok {
				fmt.Println("No estimate yet: need at least two days of positive history.")
				return nil
			}
			fmt.Printf("ETA to max cash: %s days\n", formatGP(days))
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every recorded flip",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			repo, err := openRepo()
			if err != nil {
				return err
			}
			if err := repo.Reset(context.Background()); err != nil {
				return err
			}
			fmt.Println("All flips deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

// formatGP renders an integer gp amount with thousands separators.
func formatGP(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func formatPct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
