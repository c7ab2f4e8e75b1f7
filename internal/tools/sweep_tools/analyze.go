package sweep_tools

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/mailsweep/internal/gmail"
	"github.com/teemow/mailsweep/internal/sampler"
	"github.com/teemow/mailsweep/internal/senders"
	"github.com/teemow/mailsweep/internal/server"
)

// peekSampleCount is how many example messages a peek shows.
const peekSampleCount = 3

func handleAnalyzeSenders(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	age, _ := args["age"].(string)
	mode, err := sampler.ParseMode(age)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	requireUnsubscribe, _ := args["requireUnsubscribe"].(bool)

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	self, err := client.Profile()
	if err != nil {
		recordInvocation(ctx, sc, "mailsweep_analyze_senders", account, start, true)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve account address: %v", err)), nil
	}

	pool, err := sampler.New(client, sampler.DefaultConfig(), nil).Run(ctx, mode, self)
	if err != nil {
		recordInvocation(ctx, sc, "mailsweep_analyze_senders", account, start, true)
		return mcp.NewToolResultError(fmt.Sprintf("Sampling failed: %v", err)), nil
	}

	opts := senders.DefaultOptions()
	opts.RequireListUnsubscribe = requireUnsubscribe
	records, err := senders.NewAggregator(client, opts, nil).Aggregate(ctx, pool)
	if err != nil {
		recordInvocation(ctx, sc, "mailsweep_analyze_senders", account, start, true)
		return mcp.NewToolResultError(fmt.Sprintf("Sender aggregation failed: %v", err)), nil
	}

	ranked := senders.Rank(records, senders.DefaultTopN, senders.DefaultNominalSampleSize)
	recordInvocation(ctx, sc, "mailsweep_analyze_senders", account, start, false)
	return mcp.NewToolResultText(formatRanked(string(mode), len(pool), ranked)), nil
}

// formatRanked renders the ranked sender list for a tool response.
func formatRanked(mode string, poolSize int, ranked []senders.Ranked) string {
	if len(ranked) == 0 {
		return fmt.Sprintf("No senders found in the %s sample (%d messages pooled).", mode, poolSize)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top senders (%s sample, %d messages pooled):\n", mode, poolSize)
	for _, r := range ranked {
		fmt.Fprintf(&b, "%2d. %s — %d messages (%.1f%% of sample)\n", r.Rank, r.Sender, r.Count, r.Percent)
	}
	b.WriteString("\nUse mailsweep_sweep_senders to trash or archive mail from any of these senders.")
	return b.String()
}

func handlePeekSender(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	sender, ok := args["sender"].(string)
	if !ok || sender == "" {
		return mcp.NewToolResultError("sender is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	ids, err := client.ListMessageIDs(gmail.SenderQuery(sender), 50)
	if err != nil {
		recordInvocation(ctx, sc, "mailsweep_peek_sender", account, start, true)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search sender mail: %v", err)), nil
	}
	if len(ids) == 0 {
		recordInvocation(ctx, sc, "mailsweep_peek_sender", account, start, false)
		return mcp.NewToolResultText(fmt.Sprintf("No messages found from %s.", sender)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sample messages from %s:\n", sender)
	for i, id := range pickSamples(ids, peekSampleCount) {
		hdrs, err := client.MessageHeaders(id, []string{"Subject", "Date"})
		if err != nil {
			continue
		}
		subject := hdrs["Subject"]
		if subject == "" {
			subject = "(no subject)"
		}
		fmt.Fprintf(&b, "%d. %s\n   Date: %s\n   %s\n", i+1, subject, hdrs["Date"], gmail.MessageURL(id))
	}

	recordInvocation(ctx, sc, "mailsweep_peek_sender", account, start, false)
	return mcp.NewToolResultText(b.String()), nil
}

// pickSamples returns up to n randomly chosen IDs.
func pickSamples(ids []string, n int) []string {
	if len(ids) <= n {
		return ids
	}
	out := make([]string, 0, n)
	for _, i := range rand.Perm(len(ids))[:n] {
		out = append(out, ids[i])
	}
	return out
}

func handleListCategories(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	_ = ctx
	_ = sc

	var b strings.Builder
	b.WriteString("Gmail inbox categories:\n")
	for i, c := range gmail.Categories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\nUse mailsweep_sweep_category to move a whole category to the trash.")
	return mcp.NewToolResultText(b.String()), nil
}
