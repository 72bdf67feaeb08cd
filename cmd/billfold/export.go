package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/billfold/billfold/internal/budget"
	"github.com/billfold/billfold/internal/cli"
	"github.com/billfold/billfold/internal/report"
	"github.com/billfold/billfold/internal/service"
	"github.com/billfold/billfold/internal/sheets"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var periodFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a report to Google Sheets",
		Long: `Export the current period's summary and budget status to a Google Sheet.

Credentials come from BILLFOLD_SHEETS_* environment variables: either OAuth
client credentials plus a refresh token, or a service account key file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			period, err := report.ParsePeriod(periodFlag)
			if err != nil {
				return err
			}

			config := sheets.DefaultConfig()
			if err := config.LoadFromEnv(); err != nil {
				return err
			}
			if err := config.Validate(); err != nil {
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

			budgets, err := store.GetBudgets(ctx, userID)
			if err != nil {
				return err
			}
			evaluations := budget.EvaluateAll(budgets, transactions, now)

			// Export rows carry display names, not category ids.
			names := make(map[string]string, len(categories))
			for _, cat := range categories {
				names[cat.ID] = cat.Name
			}
			for i := range evaluations {
				if name, ok := names[evaluations[i].Budget.CategoryID]; ok {
					evaluations[i].Budget.CategoryID = name
				}
			}

			writer, err := sheets.NewWriter(ctx, config, slog.Default())
			if err != nil {
				return fmt.Errorf("connecting to Google Sheets: %w", err)
			}

			if err := writer.Write(ctx, &summary, evaluations); err != nil {
				return fmt.Errorf("writing to Google Sheets: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"✓ Exported %s report to spreadsheet %q", period, config.SpreadsheetName)))
			return nil
		},
	}

	cmd.Flags().StringVar(&periodFlag, "period", "month", "reporting period to export (week, month, year)")
	return cmd
}
