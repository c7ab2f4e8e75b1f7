package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsweep/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth [auth-code]",
		Short: "Authorize mailsweep to access a Gmail account",
		Long: `Runs the Google OAuth flow for an account. Without arguments, prints the
authorization URL to open in a browser. Rerun with the code Google hands
back to store the token:

  mailsweep auth
  mailsweep auth 4/0AbCdEf...

Tokens are cached per account, so --account lets you authorize several
Google accounts side by side.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println("Open the following URL in your browser and grant mailsweep access:")
				fmt.Println()
				fmt.Printf("  %s\n", google.GetAuthURL())
				fmt.Println()
				fmt.Println("Then rerun with the code Google shows you:")
				fmt.Printf("  mailsweep auth --account %s <code>\n", account)
				return nil
			}

			if err := google.SaveTokenForAccount(context.Background(), account, args[0]); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
			fmt.Printf("Token saved for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name the token is stored under")

	return cmd
}
