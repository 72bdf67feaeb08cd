package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/billfold/billfold/internal/cli"
	"github.com/billfold/billfold/internal/ledger"
	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and manage transactions",
		Long: `Record income and expenses against an account. Every mutation applies its
balance effect atomically with the ledger write, so stored balances always
equal the signed sum of their transactions.`,
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())
	cmd.AddCommand(editTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())

	return cmd
}

func addTransactionCmd() *cobra.Command {
	var (
		accountRef  string
		categoryRef string
		txnType     string
		date        string
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Record a transaction",
		Long: `Record a transaction and adjust the account balance in the same step.

Examples:
  billfold tx add 50.00 "Groceries" --account Checking --category "Food & Dining"
  billfold tx add 2500.00 "Paycheck" --account Checking --type income --category Salary`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			when, err := parseDate(date)
			if err != nil {
				return err
			}

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account, err := resolveAccount(ctx, store, userID, accountRef)
			if err != nil {
				return err
			}

			txn := &model.Transaction{
				ID:          uuid.NewString(),
				UserID:      userID,
				AccountID:   account.ID,
				Date:        when,
				Description: args[1],
				Notes:       notes,
				Type:        model.TransactionType(txnType),
				Amount:      amount,
			}

			if categoryRef != "" {
				category, err := resolveCategory(ctx, store, userID, categoryRef)
				if err != nil {
					return err
				}
				txn.CategoryID = category.ID
			}

			maintainer := ledger.NewMaintainer(store)
			if err := maintainer.Record(ctx, txn); err != nil {
				return err
			}

			effect := txn.SignedAmount()
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"✓ Recorded %s of %.2f on %q (%+.2f)",
				txn.Type, txn.Amount, account.Name, effect)))
			fmt.Println(cli.SubtleStyle.Render("  id: " + txn.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "account id or name (required)")
	cmd.Flags().StringVar(&categoryRef, "category", "", "category id or name")
	cmd.Flags().StringVar(&txnType, "type", "expense", "transaction type (income, expense)")
	cmd.Flags().StringVar(&date, "date", "", "transaction date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Long:  `Delete a transaction and reverse its effect on the account balance in the same step.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			maintainer := ledger.NewMaintainer(store)
			if err := maintainer.Remove(ctx, userID, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Transaction deleted, balance restored"))
			return nil
		},
	}
}

func editTransactionCmd() *cobra.Command {
	var (
		amountFlag  string
		categoryRef string
		date        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Edit a transaction",
		Long: `Replace a transaction's amount, category, date, or description. The old
effect is reversed and the new one applied as a single atomic unit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			oldTxn, err := store.GetTransactionByID(ctx, userID, args[0])
			if err != nil {
				return err
			}

			newTxn := *oldTxn
			newTxn.ID = uuid.NewString()
			newTxn.Hash = ""

			if amountFlag != "" {
				amount, err := strconv.ParseFloat(amountFlag, 64)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountFlag, err)
				}
				newTxn.Amount = amount
			}
			if description != "" {
				newTxn.Description = description
			}
			if date != "" {
				when, err := parseDate(date)
				if err != nil {
					return err
				}
				newTxn.Date = when
			}
			if categoryRef != "" {
				category, err := resolveCategory(ctx, store, userID, categoryRef)
				if err != nil {
					return err
				}
				newTxn.CategoryID = category.ID
			}

			maintainer := ledger.NewMaintainer(store)
			if err := maintainer.Replace(ctx, userID, oldTxn.ID, &newTxn); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Transaction updated"))
			fmt.Println(cli.SubtleStyle.Render("  new id: " + newTxn.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&amountFlag, "amount", "", "new amount")
	cmd.Flags().StringVar(&categoryRef, "category", "", "new category id or name")
	cmd.Flags().StringVar(&date, "date", "", "new date YYYY-MM-DD")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		accountRef string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.TransactionFilter{Limit: limit}
			if accountRef != "" {
				account, err := resolveAccount(ctx, store, userID, accountRef)
				if err != nil {
					return err
				}
				filter.AccountID = account.ID
			}

			transactions, err := store.GetTransactions(ctx, userID, filter)
			if err != nil {
				return err
			}

			if len(transactions) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			categories, err := store.GetCategories(ctx, userID)
			if err != nil {
				return err
			}
			categoryNames := make(map[string]string, len(categories))
			for _, cat := range categories {
				categoryNames[cat.ID] = cat.Name
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Date"),
				cli.BoldStyle.Render("Description"),
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Amount"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 8),
				strings.Repeat("-", 10),
				strings.Repeat("-", 24),
				strings.Repeat("-", 16),
				strings.Repeat("-", 10))

			for _, txn := range transactions {
				categoryName := categoryNames[txn.CategoryID]
				if categoryName == "" {
					categoryName = cli.SubtleStyle.Render(model.UncategorizedName)
				}
				amount := fmt.Sprintf("%+.2f", txn.SignedAmount())
				if txn.Type == model.TypeExpense {
					amount = cli.WarningStyle.Render(amount)
				} else {
					amount = cli.SuccessStyle.Render(amount)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					shortID(txn.ID),
					txn.Date.Format("2006-01-02"),
					txn.Description,
					categoryName,
					amount)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "filter by account id or name")
	cmd.Flags().IntVar(&limit, "limit", 25, "maximum rows to show")
	return cmd
}
