package sweep_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mailsweep/internal/gmail"
	"github.com/teemow/mailsweep/internal/instrumentation"
	"github.com/teemow/mailsweep/internal/server"
)

// RegisterSweepTools registers all mailbox-cleanup tools with the MCP server.
// Destructive tools (sweep, category sweep, empty trash) are skipped in
// read-only mode.
func RegisterSweepTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	analyzeTool := mcp.NewTool("mailsweep_analyze_senders",
		mcp.WithDescription("Rank the top senders of a Gmail mailbox by sampled inbox volume"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("age",
			mcp.Description("Sampling age window: 'recent' (default), 'old', or 'very-old'"),
		),
		mcp.WithBoolean("requireUnsubscribe",
			mcp.Description("Only count senders whose messages carry a List-Unsubscribe header"),
		),
	)
	s.AddTool(analyzeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAnalyzeSenders(ctx, request, sc)
	})

	peekTool := mcp.NewTool("mailsweep_peek_sender",
		mcp.WithDescription("Show a few sample messages (subject, date, Gmail link) from a sender"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("sender",
			mcp.Required(),
			mcp.Description("Sender address or raw From header value"),
		),
	)
	s.AddTool(peekTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handlePeekSender(ctx, request, sc)
	})

	categoriesTool := mcp.NewTool("mailsweep_list_categories",
		mcp.WithDescription("List the standard Gmail inbox categories that can be swept"),
	)
	s.AddTool(categoriesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListCategories(ctx, request, sc)
	})

	if readOnly {
		return nil
	}

	sweepTool := mcp.NewTool("mailsweep_sweep_senders",
		mcp.WithDescription("Move all mail from one or more senders to the trash (or archive it)"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("senders",
			mcp.Required(),
			mcp.Description("Sender address (string) or array of sender addresses"),
		),
		mcp.WithBoolean("archive",
			mcp.Description("Archive inbox mail from the senders instead of trashing all their mail"),
		),
	)
	s.AddTool(sweepTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSweepSenders(ctx, request, sc)
	})

	sweepCategoryTool := mcp.NewTool("mailsweep_sweep_category",
		mcp.WithDescription("Move everything in a Gmail category (promotions, social, ...) to the trash"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category name: primary, social, promotions, updates, or forums"),
		),
	)
	s.AddTool(sweepCategoryTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSweepCategory(ctx, request, sc)
	})

	emptyTrashTool := mcp.NewTool("mailsweep_empty_trash",
		mcp.WithDescription("Permanently delete everything in the trash. This cannot be undone."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)
	s.AddTool(emptyTrashTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleEmptyTrash(ctx, request, sc)
	})

	return nil
}

// getAccountFromArgs extracts the account name from request arguments, defaulting to "default"
func getAccountFromArgs(args map[string]interface{}) string {
	account := "default"
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		account = accountVal
	}
	return account
}

// clientForAccount resolves the Gmail client for an account, returning a tool
// error result with authorization instructions when no token is cached.
func clientForAccount(ctx context.Context, sc *server.ServerContext, account string) (*gmail.Client, *mcp.CallToolResult) {
	client := sc.GmailClientForAccount(account)
	if client != nil {
		return client, nil
	}

	if !gmail.HasTokenForAccount(account) {
		return nil, mcp.NewToolResultError(fmt.Sprintf(
			"Google OAuth token not found for account %q. Run 'mailsweep auth' on the host to authorize access, then retry.",
			account))
	}

	client, err := gmail.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create Gmail client for account %s: %v", account, err))
	}
	sc.SetGmailClientForAccount(account, client)
	return client, nil
}

// recordInvocation records tool metrics when instrumentation is wired.
func recordInvocation(ctx context.Context, sc *server.ServerContext, tool, account string, start time.Time, failed bool) {
	m := sc.Metrics()
	if m == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if failed {
		status = instrumentation.StatusError
	}
	m.RecordToolInvocationWithAccount(ctx, tool, status, account, time.Since(start))
}
