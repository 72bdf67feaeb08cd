package main

import (
	"fmt"

	"github.com/billfold/billfold/internal/cli"
	"github.com/spf13/cobra"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the user session",
		Long:  `Sign up, sign in, sign out, and inspect the current session.`,
	}

	cmd.AddCommand(signupCmd())
	cmd.AddCommand(signinCmd())
	cmd.AddCommand(signoutCmd())
	cmd.AddCommand(whoamiCmd())

	return cmd
}

func signupCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "signup <display-name>",
		Short: "Create a new profile and sign in",
		Long: `Create a new profile with its default system categories and sign the
session in as that user. Signup is idempotent at the provisioning level:
retrying a half-finished signup completes it rather than duplicating the
default categories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := initSession(store)
			if err != nil {
				return err
			}

			profile, err := sess.SignUp(ctx, args[0], currency)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("✓ Created profile %q (%s)", profile.DisplayName, profile.Currency)))
			return nil
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "profile currency code (default USD)")
	return cmd
}

func signinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signin <display-name>",
		Short: "Sign in as an existing profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := initSession(store)
			if err != nil {
				return err
			}

			if _, err := sess.SignIn(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Signed in as %q", args[0])))
			return nil
		},
	}
}

func signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Clear the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sess, err := initSession(store)
			if err != nil {
				return err
			}

			if err := sess.SignOut(); err != nil {
				return err
			}

			fmt.Println(cli.InfoStyle.Render("Signed out"))
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, userID, err := requireUser(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			profile, err := store.GetProfile(ctx, userID)
			if err != nil {
				return err
			}
			if profile == nil {
				return fmt.Errorf("session user %s has no profile", userID)
			}

			fmt.Printf("%s (%s)\n", profile.DisplayName, profile.Currency)
			return nil
		},
	}
}
