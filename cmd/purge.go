package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsweep/internal/gmail"
	"github.com/teemow/mailsweep/internal/sweep"
)

func newPurgeCmd() *cobra.Command {
	var (
		account string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete everything in the trash",
		Long: `Permanently deletes every message in the trash. Unlike sweeping, this
cannot be undone: purged messages do not go through the trash's 30-day
grace period, they are gone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := cmdClient(ctx, account)
			if err != nil {
				return err
			}

			ids, err := client.ListAllMessageIDs(gmail.TrashQuery)
			if err != nil {
				return fmt.Errorf("failed to list trash: %w", err)
			}
			if len(ids) == 0 {
				fmt.Println("Trash is already empty.")
				return nil
			}

			if !yes && !confirm(os.Stdin, os.Stdout,
				fmt.Sprintf("Permanently delete %d messages from the trash? This cannot be undone.", len(ids))) {
				fmt.Println("Aborted.")
				return nil
			}

			purger := sweep.NewPurger(client, sweep.DefaultPurgeChunkSize, nil)
			res := purger.Run(ctx, ids)
			if res.Failed > 0 {
				fmt.Printf("Permanently deleted %d of %d messages; %d deletions failed.\n",
					res.Deleted, res.Total, res.Failed)
				return nil
			}
			fmt.Printf("Permanently deleted %d messages from the trash.\n", res.Deleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name used to manage multiple Google accounts")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
