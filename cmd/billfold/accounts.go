package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/billfold/billfold/internal/cli"
	"github.com/billfold/billfold/internal/ledger"
	"github.com/billfold/billfold/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `Create, list, close, and verify accounts.`,
	}

	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(closeAccountCmd())
	cmd.AddCommand(reopenAccountCmd())
	cmd.AddCommand(deleteAccountCmd())
	cmd.AddCommand(verifyAccountsCmd())

	return cmd
}

func addAccountCmd() *cobra.Command {
	var (
		accountType string
		currency    string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if currency == "" {
				profile, err := store.GetProfile(ctx, userID)
				if err != nil {
					return err
				}
				if profile != nil {
					currency = profile.Currency
				}
			}

			account := &model.Account{
				ID:       uuid.NewString(),
				UserID:   userID,
				Name:     args[0],
				Type:     model.AccountType(accountType),
				Currency: currency,
				IsActive: true,
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Created %s account %q", account.Type, account.Name)))
			fmt.Println(cli.SubtleStyle.Render("  id: " + account.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "checking", "account type (checking, savings, credit_card, cash, investment)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (default: profile currency)")
	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetAccounts(ctx, userID)
			if err != nil {
				return err
			}

			if len(accounts) == 0 {
				fmt.Println(cli.InfoStyle.Render("No accounts found. Use 'billfold accounts add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Type"),
				cli.BoldStyle.Render("Balance"),
				cli.BoldStyle.Render("Status"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 8),
				strings.Repeat("-", 20),
				strings.Repeat("-", 12),
				strings.Repeat("-", 12),
				strings.Repeat("-", 8))

			for _, account := range accounts {
				status := "active"
				if !account.IsActive {
					status = cli.SubtleStyle.Render("closed")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f %s\t%s\n",
					shortID(account.ID), account.Name, account.Type,
					account.Balance, account.Currency, status)
			}

			return nil
		},
	}
}

func closeAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <account-id>",
		Short: "Close an account (soft delete)",
		Long:  `Mark an account inactive. No new transactions may be applied to it; history and balance are retained.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account, err := resolveAccount(ctx, store, userID, args[0])
			if err != nil {
				return err
			}
			if err := store.SetAccountActive(ctx, userID, account.ID, false); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Account closed"))
			return nil
		},
	}
}

func reopenAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <account-id>",
		Short: "Reopen a closed account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account, err := resolveAccount(ctx, store, userID, args[0])
			if err != nil {
				return err
			}
			if err := store.SetAccountActive(ctx, userID, account.ID, true); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render("✓ Account reopened"))
			return nil
		},
	}
}

func deleteAccountCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Permanently delete an account",
		Long:  `Hard-delete an account and all of its transactions. This cannot be undone; prefer 'billfold accounts close' to keep history.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !force {
				return fmt.Errorf("refusing to hard-delete without --force; consider 'billfold accounts close' instead")
			}

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account, err := resolveAccount(ctx, store, userID, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteAccount(ctx, userID, account.ID); err != nil {
				return err
			}

			fmt.Println(cli.WarningStyle.Render("✓ Account deleted"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm permanent deletion")
	return cmd
}

func verifyAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check stored balances against the ledger",
		Long:  `Recompute each account's balance from its transactions and report any drift against the stored value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.GetAccounts(ctx, userID)
			if err != nil {
				return err
			}

			maintainer := ledger.NewMaintainer(store)
			clean := true
			for _, account := range accounts {
				drift, err := maintainer.VerifyAccount(ctx, userID, account.ID)
				if err != nil {
					return err
				}
				if drift == nil {
					continue
				}
				clean = false
				fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf(
					"✗ %s: stored %.2f, ledger %.2f (drift %+.2f)",
					account.Name, drift.Stored, drift.Computed, drift.Amount())))
			}

			if clean {
				fmt.Println(cli.SuccessStyle.Render("✓ All account balances match the ledger"))
			}
			return nil
		},
	}
}

// shortID abbreviates a uuid for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
