package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsweep/internal/gmail"
	"github.com/teemow/mailsweep/internal/sweep"
)

func newCategoriesCmd() *cobra.Command {
	var (
		account string
		trash   string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List Gmail inbox categories or sweep one to the trash",
		Long: `Without flags, lists the standard Gmail inbox categories. With --trash,
moves everything in the named category to the trash:

  mailsweep categories
  mailsweep categories --trash promotions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if trash == "" {
				fmt.Println("Gmail inbox categories:")
				for i, c := range gmail.Categories {
					fmt.Printf("%d. %s\n", i+1, c)
				}
				return nil
			}

			if !gmail.IsKnownCategory(trash) {
				return fmt.Errorf("unknown category %q; valid categories: %v", trash, gmail.Categories)
			}

			ctx := context.Background()
			client, err := cmdClient(ctx, account)
			if err != nil {
				return err
			}

			ids, err := client.ListAllMessageIDs(gmail.CategoryQuery(trash))
			if err != nil {
				return fmt.Errorf("failed to collect category messages: %w", err)
			}
			if len(ids) == 0 {
				fmt.Printf("Category %s is already empty.\n", trash)
				return nil
			}

			if !yes && !confirm(os.Stdin, os.Stdout,
				fmt.Sprintf("Move %d messages from %s to the trash?", len(ids), trash)) {
				fmt.Println("Aborted.")
				return nil
			}

			mutator := sweep.NewMutator(client, sweep.DefaultSizing(), nil)
			res := mutator.Run(ctx, ids, sweep.TrashMutation())
			if res.Aborted {
				return fmt.Errorf("sweep aborted after repeated failures: %d of %d messages trashed",
					res.Processed, res.Total)
			}
			fmt.Printf("Moved %d messages from %s to the trash.\n", res.Processed, trash)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name used to manage multiple Google accounts")
	cmd.Flags().StringVar(&trash, "trash", "", "Move everything in this category to the trash")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
