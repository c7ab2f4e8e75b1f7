package cmd

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsweep/internal/gmail"
)

func newPeekCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "peek <sender>",
		Short: "Show a few sample messages from a sender",
		Long: `Shows subject, date, and a Gmail link for up to three randomly chosen
messages from a sender. Useful for checking what a ranked sender actually
sends before sweeping it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sender := args[0]

			client, err := cmdClient(ctx, account)
			if err != nil {
				return err
			}

			ids, err := client.ListMessageIDs(gmail.SenderQuery(sender), 50)
			if err != nil {
				return fmt.Errorf("failed to search sender mail: %w", err)
			}
			if len(ids) == 0 {
				fmt.Printf("No messages found from %s.\n", sender)
				return nil
			}

			if len(ids) > 3 {
				picked := make([]string, 0, 3)
				for _, i := range rand.Perm(len(ids))[:3] {
					picked = append(picked, ids[i])
				}
				ids = picked
			}

			fmt.Printf("Sample messages from %s:\n", sender)
			for i, id := range ids {
				hdrs, err := client.MessageHeaders(id, []string{"Subject", "Date"})
				if err != nil {
					continue
				}
				subject := hdrs["Subject"]
				if subject == "" {
					subject = "(no subject)"
				}
				fmt.Printf("%d. %s\n   Date: %s\n   %s\n", i+1, subject, hdrs["Date"], gmail.MessageURL(id))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name used to manage multiple Google accounts")

	return cmd
}
