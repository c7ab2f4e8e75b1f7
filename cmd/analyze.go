package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsweep/internal/gmail"
	"github.com/teemow/mailsweep/internal/sampler"
	"github.com/teemow/mailsweep/internal/senders"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		account            string
		age                string
		requireUnsubscribe bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Sample the mailbox and rank its top senders",
		Long: `Samples the mailbox across three time windows, pools the sampled messages,
and prints the ten senders that account for the largest share of the sample.

The age window controls which part of the mailbox is sampled:
  recent    the last 18 months (default)
  old       18 months to 4 years ago
  very-old  older than 4 years`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := cmdClient(ctx, account)
			if err != nil {
				return err
			}

			ranked, poolSize, mode, err := rankSenders(ctx, client, age, requireUnsubscribe)
			if err != nil {
				return err
			}

			printRanked(os.Stdout, mode, poolSize, ranked)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name used to manage multiple Google accounts")
	cmd.Flags().StringVar(&age, "age", "recent", "Sampling age window: recent, old, or very-old")
	cmd.Flags().BoolVar(&requireUnsubscribe, "require-unsubscribe", false, "Only count senders whose messages carry a List-Unsubscribe header")

	return cmd
}

// cmdClient resolves the Gmail client for a CLI invocation, pointing the user
// at the auth command when no token is cached yet.
func cmdClient(ctx context.Context, account string) (*gmail.Client, error) {
	if !gmail.HasTokenForAccount(account) {
		return nil, fmt.Errorf("no Google OAuth token found for account %q; run 'mailsweep auth' first", account)
	}
	client, err := gmail.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
	}
	return client, nil
}

// rankSenders runs the full sampling and aggregation pipeline for an account.
func rankSenders(ctx context.Context, client *gmail.Client, age string, requireUnsubscribe bool) ([]senders.Ranked, int, sampler.Mode, error) {
	mode, err := sampler.ParseMode(age)
	if err != nil {
		return nil, 0, "", err
	}

	self, err := client.Profile()
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to resolve account address: %w", err)
	}

	pool, err := sampler.New(client, sampler.DefaultConfig(), nil).Run(ctx, mode, self)
	if err != nil {
		return nil, 0, "", fmt.Errorf("sampling failed: %w", err)
	}

	records, err := senders.NewAggregator(client, defaultAggregateOptions(requireUnsubscribe), nil).Aggregate(ctx, pool)
	if err != nil {
		return nil, 0, "", fmt.Errorf("sender aggregation failed: %w", err)
	}

	ranked := senders.Rank(records, senders.DefaultTopN, senders.DefaultNominalSampleSize)
	return ranked, len(pool), mode, nil
}

func defaultAggregateOptions(requireUnsubscribe bool) senders.Options {
	opts := senders.DefaultOptions()
	opts.RequireListUnsubscribe = requireUnsubscribe
	return opts
}

// printRanked renders the ranked sender table.
func printRanked(w io.Writer, mode sampler.Mode, poolSize int, ranked []senders.Ranked) {
	if len(ranked) == 0 {
		fmt.Fprintf(w, "No senders found in the %s sample (%d messages pooled).\n", mode, poolSize)
		return
	}

	fmt.Fprintf(w, "Top senders (%s sample, %d messages pooled):\n\n", mode, poolSize)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSENDER\tCOUNT\t% OF SAMPLE")
	for _, r := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f%%\n", r.Rank, r.Sender, r.Count, r.Percent)
	}
	tw.Flush()
	fmt.Fprintln(w, "\nSweep any of these with: mailsweep sweep <rank|sender|ALL>")
}
