package server

import (
	"context"
	"sync"

	"github.com/teemow/mailsweep/internal/gmail"
	"github.com/teemow/mailsweep/internal/google"
	"github.com/teemow/mailsweep/internal/instrumentation"
	"github.com/teemow/mailsweep/internal/logging"
)

// ServerContext holds the shared state for the MCP server: per-account Gmail
// clients, the metrics recorder, and the audit logger for destructive tools.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	clients     map[string]*gmail.Client // account name -> client
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	log         logging.Logger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context. Clients are created lazily;
// a missing token for the default account is not an error, tools report it
// when first used.
func NewServerContext(ctx context.Context) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		clients: make(map[string]*gmail.Client),
		log:     logging.DefaultLogger(),
	}

	if google.HasToken() {
		client, err := gmail.NewClientForAccount(shutdownCtx, "default")
		if err != nil {
			sc.log.Warn("failed to create Gmail client for default account",
				logging.KeyError, err.Error())
		} else {
			sc.clients["default"] = client
		}
	}

	return sc, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// GmailClientForAccount returns the Gmail client for a specific account,
// creating and caching it on first use. Returns nil if the account has no
// token.
func (sc *ServerContext) GmailClientForAccount(account string) *gmail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.clients[account]; ok {
		return client
	}

	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := gmail.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.log.Warn("failed to create Gmail client",
			"account", account,
			logging.KeyError, err.Error())
		return nil
	}

	sc.clients[account] = client
	return client
}

// GmailClient returns the Gmail client for the default account.
func (sc *ServerContext) GmailClient() *gmail.Client {
	return sc.GmailClientForAccount("default")
}

// SetGmailClientForAccount sets the Gmail client for a specific account.
func (sc *ServerContext) SetGmailClientForAccount(account string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.clients[account] = client
}

// SetGmailClient sets the Gmail client for the default account.
func (sc *ServerContext) SetGmailClient(client *gmail.Client) {
	sc.SetGmailClientForAccount("default", client)
}

// SetMetrics sets the metrics recorder for tool instrumentation.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil if instrumentation is not
// configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger for destructive tools.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, or nil if not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
