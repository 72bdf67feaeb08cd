package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/billfold/billfold/internal/cli"
	"github.com/billfold/billfold/internal/report"
	"github.com/billfold/billfold/internal/service"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var periodFlag string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize spending for a period",
		Long: `Summarize income and expenses for the current week, month, or year.

The window always ends today: a week report covers the trailing seven days,
a month report covers the 1st through today, and a year report covers
January 1st through today with a month-by-month comparison.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			period, err := report.ParsePeriod(periodFlag)
			if err != nil {
				return err
			}

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			now := time.Now()
			start, _ := period.Window(now)
			transactions, err := store.GetTransactions(ctx, userID, service.TransactionFilter{
				StartDate: &start,
			})
			if err != nil {
				return err
			}

			summary := report.Aggregate(period, now, transactions)

			categories, err := store.GetCategories(ctx, userID)
			if err != nil {
				return err
			}
			report.ResolveCategoryNames(&summary, categories)

			renderSummary(&summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&periodFlag, "period", "month", "reporting period (week, month, year)")
	return cmd
}

func renderSummary(summary *report.Summary) {
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Report: %s to %s",
		summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02"))))
	fmt.Println()

	fmt.Printf("%s  %s\n", cli.BoldStyle.Render("Income: "),
		cli.SuccessStyle.Render(fmt.Sprintf("%.2f", summary.TotalIncome)))
	fmt.Printf("%s  %s\n", cli.BoldStyle.Render("Expense:"),
		cli.ErrorStyle.Render(fmt.Sprintf("%.2f", summary.TotalExpense)))

	net := fmt.Sprintf("%+.2f", summary.Net)
	if summary.Net >= 0 {
		net = cli.SuccessStyle.Render(net)
	} else {
		net = cli.ErrorStyle.Render(net)
	}
	fmt.Printf("%s  %s\n", cli.BoldStyle.Render("Net:    "), net)
	fmt.Printf("%s  %.1f%%\n", cli.BoldStyle.Render("Saved:  "), summary.SavingsRate)

	if len(summary.ByCategory) > 0 {
		fmt.Println()
		fmt.Println(cli.BoldStyle.Render("By category"))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, ct := range summary.ByCategory {
			fmt.Fprintf(w, "  %s\t%.2f\t%s\n", ct.Name, ct.Amount,
				cli.SubtleStyle.Render(fmt.Sprintf("%.1f%%", ct.Percent)))
		}
		_ = w.Flush()
	}

	if len(summary.ByMonth) > 0 {
		fmt.Println()
		fmt.Println(cli.BoldStyle.Render("By month"))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  \t%s\t%s\t%s\n", "Income", "Expense", "Net")
		for _, mt := range summary.ByMonth {
			fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%+.2f\n",
				mt.Month.String()[:3], mt.Income, mt.Expense, mt.Income-mt.Expense)
		}
		_ = w.Flush()
	}
}
