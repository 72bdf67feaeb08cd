package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/billfold/billfold/internal/budget"
	"github.com/billfold/billfold/internal/cli"
	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage spending budgets",
		Long:  `Set per-category spending ceilings and check how the current period is tracking against them.`,
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(budgetStatusCmd())
	cmd.AddCommand(deleteBudgetCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Create a budget for a category",
		Long: `Create a spending ceiling for a category.

Examples:
  billfold budgets set "Food & Dining" 400 --period monthly
  billfold budgets set Entertainment 50 --period weekly`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category, err := resolveCategory(ctx, store, userID, args[0])
			if err != nil {
				return err
			}
			if category.Type != model.CategoryExpense {
				return fmt.Errorf("budgets apply to expense categories; %q is %s", category.Name, category.Type)
			}

			b := &model.Budget{
				ID:         uuid.NewString(),
				UserID:     userID,
				CategoryID: category.ID,
				Amount:     amount,
				Period:     model.BudgetPeriod(period),
				StartDate:  time.Now(),
			}
			if err := store.CreateBudget(ctx, b); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"✓ Budget set: %s %.2f per %s", category.Name, amount, strings.TrimSuffix(period, "ly"))))
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "monthly", "budget period (weekly, monthly, yearly)")
	return cmd
}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budgets, err := store.GetBudgets(ctx, userID)
			if err != nil {
				return err
			}

			if len(budgets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets found. Use 'billfold budgets set' to create one."))
				return nil
			}

			categoryNames, err := categoryNameIndex(cmd, store, userID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Ceiling"),
				cli.BoldStyle.Render("Period"))
			for _, b := range budgets {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n",
					shortID(b.ID), categoryNames[b.CategoryID], b.Amount, b.Period)
			}

			return nil
		},
	}
}

func budgetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Evaluate all budgets for the current period",
		Long:  `Compute spent-to-date against each budget's ceiling, anchored to today.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budgets, err := store.GetBudgets(ctx, userID)
			if err != nil {
				return err
			}
			if len(budgets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets to evaluate."))
				return nil
			}

			// One fetch covers the widest window any budget needs.
			now := time.Now()
			fetchStart := budget.FetchStart(budgets, now)
			transactions, err := store.GetTransactions(ctx, userID, service.TransactionFilter{
				StartDate: &fetchStart,
				Type:      model.TypeExpense,
			})
			if err != nil {
				return err
			}

			categoryNames, err := categoryNameIndex(cmd, store, userID)
			if err != nil {
				return err
			}

			evaluations := budget.EvaluateAll(budgets, transactions, now)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Spent"),
				cli.BoldStyle.Render("Ceiling"),
				cli.BoldStyle.Render("%"),
				cli.BoldStyle.Render("Status"))

			for _, eval := range evaluations {
				var status string
				switch eval.Status {
				case model.StatusExceeded:
					status = cli.ErrorStyle.Render("exceeded")
				case model.StatusWarning:
					status = cli.WarningStyle.Render("warning")
				default:
					status = cli.SuccessStyle.Render("ok")
				}
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.0f\t%s\n",
					categoryNames[eval.Budget.CategoryID],
					eval.Spent, eval.Budget.Amount, eval.Percentage, status)
			}

			return nil
		},
	}
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <budget-id>",
		Short: "Delete a budget",
		Long:  `Delete a budget. Transactions and balances are unaffected; budgets are a read-side view over the ledger.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteBudget(ctx, userID, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Budget deleted"))
			return nil
		},
	}
}

// categoryNameIndex maps category ids to display names.
func categoryNameIndex(cmd *cobra.Command, store service.Storage, userID string) (map[string]string, error) {
	categories, err := store.GetCategories(cmd.Context(), userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}
