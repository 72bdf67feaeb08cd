package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/billfold/billfold/internal/cli"
	"github.com/billfold/billfold/internal/ledger"
	"github.com/billfold/billfold/internal/model"
	"github.com/billfold/billfold/internal/ofx"
	"github.com/billfold/billfold/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	var (
		accountRef string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.ofx> [file.ofx...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import bank transactions from OFX or QFX downloads into a local account.

Each imported row adjusts the account balance through the same ledger path as
a manually entered transaction. Rows already imported are detected by content
hash and skipped, so re-running an import is safe.

Examples:
  billfold import checking.ofx --account checking
  billfold import *.qfx --account "Chase Credit" --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			account, err := resolveAccount(ctx, store, userID, accountRef)
			if err != nil {
				return err
			}

			files, err := expandFileArgs(args)
			if err != nil {
				return err
			}

			parser := ofx.NewParser()
			var parsed []model.Transaction
			for _, file := range files {
				rows, err := parseOFXFile(ctx, parser, file, userID, account.ID)
				if err != nil {
					return fmt.Errorf("parsing %s: %w", filepath.Base(file), err)
				}
				slog.Info("Parsed OFX file", "file", filepath.Base(file), "transactions", len(rows))
				parsed = append(parsed, rows...)
			}

			if len(parsed) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found in the given files."))
				return nil
			}

			imported, skipped, err := importTransactions(ctx, store, parsed, dryRun)
			if err != nil {
				return err
			}

			fmt.Println()
			if dryRun {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf(
					"Dry run: %d would be imported, %d already present", imported, skipped)))
				return nil
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
				"✓ Imported %d transactions into %s (%d duplicates skipped)",
				imported, account.Name, skipped)))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "account to import into (name or id)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and dedupe without writing anything")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

// expandFileArgs resolves glob patterns that the shell did not expand.
func expandFileArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path, userID, accountID string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return parser.ParseFile(ctx, f, userID, accountID)
}

func importTransactions(ctx context.Context, store service.Storage, parsed []model.Transaction, dryRun bool) (imported, skipped int, err error) {
	maintainer := ledger.NewMaintainer(store)

	bar := progressbar.NewOptions(len(parsed),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing transactions..."),
	)

	for i := range parsed {
		txn := parsed[i]
		_ = bar.Add(1)

		exists, err := store.TransactionExistsByHash(ctx, txn.UserID, txn.Hash)
		if err != nil {
			return imported, skipped, err
		}
		if exists {
			skipped++
			continue
		}

		if !dryRun {
			if err := maintainer.Record(ctx, &txn); err != nil {
				return imported, skipped, fmt.Errorf("importing %q: %w", txn.Description, err)
			}
		}
		imported++
	}

	return imported, skipped, nil
}
