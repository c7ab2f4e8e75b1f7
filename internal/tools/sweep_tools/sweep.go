package sweep_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/mailsweep/internal/gmail"
	"github.com/teemow/mailsweep/internal/instrumentation"
	"github.com/teemow/mailsweep/internal/server"
	"github.com/teemow/mailsweep/internal/sweep"
	"github.com/teemow/mailsweep/internal/tools/batch"
)

func handleSweepSenders(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	senderList, err := batch.ParseStringOrArray(args["senders"], "senders")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	archive, _ := args["archive"].(bool)
	mutation := sweep.TrashMutation()
	if archive {
		mutation = sweep.ArchiveMutation()
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	mutator := sweep.NewMutator(client, sweep.DefaultSizing(), nil)
	mutator.SetMetrics(sc.Metrics())

	results := batch.ProcessBatch(senderList, func(sender string) (string, error) {
		query := gmail.SenderQuery(sender)
		if archive {
			// Archiving only touches what is still in the inbox; trashing
			// takes the sender's whole history.
			query = gmail.SenderInboxQuery(sender)
		}

		ids, err := client.ListAllMessageIDs(query)
		if err != nil {
			return "", fmt.Errorf("failed to collect messages: %w", err)
		}

		record := instrumentation.NewMutationRecord("sweep", mutation.Name).
			WithAccount(account).
			WithSender(gmail.ExtractAddress(sender)).
			WithSpanContext(ctx)

		res := mutator.Run(ctx, ids, mutation)

		if al := sc.AuditLogger(); al != nil {
			al.LogMutation(record.Complete(res.Processed, 0, res.Total, res.Aborted))
		}

		if res.Aborted {
			return "", fmt.Errorf("aborted after repeated failures: %d of %d messages processed", res.Processed, res.Total)
		}
		return fmt.Sprintf("%s: %d of %d messages %sed", sender, res.Processed, res.Total, mutation.Name), nil
	})

	recordInvocation(ctx, sc, "mailsweep_sweep_senders", account, start, false)
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleSweepCategory(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	category, ok := args["category"].(string)
	if !ok || category == "" {
		return mcp.NewToolResultError("category is required"), nil
	}
	if !gmail.IsKnownCategory(category) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown category %q; valid categories: %v", category, gmail.Categories)), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	ids, err := client.ListAllMessageIDs(gmail.CategoryQuery(category))
	if err != nil {
		recordInvocation(ctx, sc, "mailsweep_sweep_category", account, start, true)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to collect category messages: %v", err)), nil
	}

	mutation := sweep.TrashMutation()
	record := instrumentation.NewMutationRecord("sweep", mutation.Name).
		WithAccount(account).
		WithTarget(category).
		WithSpanContext(ctx)

	mutator := sweep.NewMutator(client, sweep.DefaultSizing(), nil)
	mutator.SetMetrics(sc.Metrics())
	res := mutator.Run(ctx, ids, mutation)

	if al := sc.AuditLogger(); al != nil {
		al.LogMutation(record.Complete(res.Processed, 0, res.Total, res.Aborted))
	}

	recordInvocation(ctx, sc, "mailsweep_sweep_category", account, start, res.Aborted)
	if res.Aborted {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Sweep aborted after repeated failures: %d of %d messages trashed.", res.Processed, res.Total)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Moved %d messages from %s to the trash.", res.Processed, category)), nil
}

func handleEmptyTrash(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	start := time.Now()
	args := request.GetArguments()
	account := getAccountFromArgs(args)

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	ids, err := client.ListAllMessageIDs(gmail.TrashQuery)
	if err != nil {
		recordInvocation(ctx, sc, "mailsweep_empty_trash", account, start, true)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list trash: %v", err)), nil
	}
	if len(ids) == 0 {
		recordInvocation(ctx, sc, "mailsweep_empty_trash", account, start, false)
		return mcp.NewToolResultText("Trash is already empty."), nil
	}

	record := instrumentation.NewMutationRecord("purge", "delete").
		WithAccount(account).
		WithTarget("trash").
		WithSpanContext(ctx)

	purger := sweep.NewPurger(client, sweep.DefaultPurgeChunkSize, nil)
	purger.SetMetrics(sc.Metrics())
	res := purger.Run(ctx, ids)

	if al := sc.AuditLogger(); al != nil {
		al.LogMutation(record.Complete(res.Deleted, res.Failed, res.Total, false))
	}

	recordInvocation(ctx, sc, "mailsweep_empty_trash", account, start, res.Failed > 0)
	if res.Failed > 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Permanently deleted %d of %d messages; %d deletions failed.", res.Deleted, res.Total, res.Failed)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Permanently deleted %d messages from the trash.", res.Deleted)), nil
}
