package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsweep/internal/gmail"
	"github.com/teemow/mailsweep/internal/senders"
	"github.com/teemow/mailsweep/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	var (
		account            string
		age                string
		except             []int
		archive            bool
		requireUnsubscribe bool
		yes                bool
	)

	cmd := &cobra.Command{
		Use:   "sweep <rank|sender|ALL>...",
		Short: "Move mail from the selected senders to the trash (or archive it)",
		Long: `Moves all mail from the selected senders to the trash, or archives their
inbox mail with --archive.

Senders are selected by rank number from a fresh analysis, by literal
address, or with ALL for every ranked sender:

  mailsweep sweep 1 3
  mailsweep sweep news@example.com
  mailsweep sweep ALL --except 2,5

Rank numbers and ALL trigger a new sampling run so the ranks match what
analyze would print right now.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := cmdClient(ctx, account)
			if err != nil {
				return err
			}

			var ranked []senders.Ranked
			if selectionNeedsRanking(args) {
				var poolSize int
				var mode string
				ranked, poolSize, mode, err = rankedForSelection(ctx, client, age, requireUnsubscribe)
				if err != nil {
					return err
				}
				fmt.Printf("Ranked %d senders from a %s sample of %d messages.\n\n", len(ranked), mode, poolSize)
			}

			targets, err := resolveSelection(args, except, ranked)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Println("Nothing selected.")
				return nil
			}

			action := "trash all mail from"
			if archive {
				action = "archive the inbox mail of"
			}
			fmt.Printf("About to %s %d sender(s):\n", action, len(targets))
			for _, t := range targets {
				fmt.Printf("  - %s\n", t)
			}
			if !yes && !confirm(os.Stdin, os.Stdout, "Continue?") {
				fmt.Println("Aborted.")
				return nil
			}

			mutation := sweep.TrashMutation()
			if archive {
				mutation = sweep.ArchiveMutation()
			}
			mutator := sweep.NewMutator(client, sweep.DefaultSizing(), nil)

			for _, sender := range targets {
				query := gmail.SenderQuery(sender)
				if archive {
					query = gmail.SenderInboxQuery(sender)
				}

				ids, err := client.ListAllMessageIDs(query)
				if err != nil {
					return fmt.Errorf("failed to collect messages from %s: %w", sender, err)
				}

				res := mutator.Run(ctx, ids, mutation)
				if res.Aborted {
					return fmt.Errorf("sweep of %s aborted after repeated failures: %d of %d messages processed",
						sender, res.Processed, res.Total)
				}
				fmt.Printf("%s: %d of %d messages %sed\n", sender, res.Processed, res.Total, mutation.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name used to manage multiple Google accounts")
	cmd.Flags().StringVar(&age, "age", "recent", "Sampling age window used to resolve rank numbers")
	cmd.Flags().IntSliceVar(&except, "except", nil, "Rank numbers to exclude when sweeping ALL")
	cmd.Flags().BoolVar(&archive, "archive", false, "Archive inbox mail instead of trashing all mail")
	cmd.Flags().BoolVar(&requireUnsubscribe, "require-unsubscribe", false, "Only rank senders whose messages carry a List-Unsubscribe header")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// rankedForSelection wraps rankSenders, returning the mode as a plain string
// for printing.
func rankedForSelection(ctx context.Context, client *gmail.Client, age string, requireUnsubscribe bool) ([]senders.Ranked, int, string, error) {
	ranked, poolSize, mode, err := rankSenders(ctx, client, age, requireUnsubscribe)
	return ranked, poolSize, string(mode), err
}

// selectionNeedsRanking reports whether any selector refers to a rank number
// or the ALL keyword, both of which require a fresh analysis run.
func selectionNeedsRanking(args []string) bool {
	for _, arg := range args {
		if strings.EqualFold(arg, "ALL") {
			return true
		}
		if _, err := strconv.Atoi(arg); err == nil {
			return true
		}
	}
	return false
}

// resolveSelection maps the selector arguments to sender values. Rank numbers
// and ALL resolve against the ranked list; anything containing an @ passes
// through as a literal address. Duplicates collapse, first occurrence wins.
func resolveSelection(args []string, except []int, ranked []senders.Ranked) ([]string, error) {
	excluded := make(map[int]bool, len(except))
	for _, n := range except {
		excluded[n] = true
	}

	var out []string
	seen := make(map[string]bool)
	add := func(sender string) {
		if !seen[sender] {
			seen[sender] = true
			out = append(out, sender)
		}
	}

	for _, arg := range args {
		switch {
		case strings.EqualFold(arg, "ALL"):
			for _, r := range ranked {
				if !excluded[r.Rank] {
					add(r.Sender)
				}
			}
		case strings.Contains(arg, "@"):
			add(arg)
		default:
			n, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("unrecognized selector %q: expected a rank number, a sender address, or ALL", arg)
			}
			if n < 1 || n > len(ranked) {
				return nil, fmt.Errorf("rank %d is out of range (1-%d)", n, len(ranked))
			}
			add(ranked[n-1].Sender)
		}
	}
	return out, nil
}

// confirm asks a yes/no question and returns true only on an explicit yes.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
