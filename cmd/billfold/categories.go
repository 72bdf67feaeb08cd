package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/billfold/billfold/internal/cli"
	"github.com/billfold/billfold/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
		Long:  `List, add, and delete categories. System categories are seeded at signup and cannot be deleted.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.GetCategories(ctx, userID)
			if err != nil {
				return err
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'billfold categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Type"),
				cli.BoldStyle.Render("Kind"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 8),
				strings.Repeat("-", 20),
				strings.Repeat("-", 8),
				strings.Repeat("-", 8))

			for _, cat := range categories {
				kind := "custom"
				if cat.IsSystem {
					kind = cli.SubtleStyle.Render("system")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(cat.ID), cat.Name, cat.Type, kind)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var (
		categoryType string
		color        string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			existing, err := store.GetCategoryByName(ctx, userID, args[0])
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("category %q already exists", args[0])
			}

			category := &model.Category{
				ID:     uuid.NewString(),
				UserID: userID,
				Name:   args[0],
				Type:   model.CategoryType(categoryType),
				Color:  color,
			}
			if err := store.CreateCategory(ctx, category); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Created %s category %q", category.Type, category.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryType, "type", "expense", "category type (income, expense)")
	cmd.Flags().StringVar(&color, "color", "", "display color (hex)")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a user-created category",
		Long:  `Delete a category by id or name. Its transactions become uncategorized. System categories are refused.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category, err := resolveCategory(ctx, store, userID, args[0])
			if err != nil {
				return err
			}

			if err := store.DeleteCategory(ctx, userID, category.ID); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Deleted category %q; its transactions are now uncategorized", category.Name)))
			return nil
		},
	}
}
