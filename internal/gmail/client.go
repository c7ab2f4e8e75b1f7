package gmail

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/mailsweep/internal/google"
)

// Client wraps the Gmail Users service with the narrow set of primitives the
// sampling and sweep engines depend on.
type Client struct {
	svc     *gmail.UsersService
	account string // The account this client is associated with
	profile string // Cached authenticated address for this account
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication
// for a specific account. A token must already be cached; run the auth
// command first.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w. Run 'mailsweep auth' first", account, err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// NewClient creates a new Gmail client with OAuth2 authentication for the
// default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// Profile returns the authenticated account's email address.
// The address is cached after the first fetch.
func (c *Client) Profile() (string, error) {
	if c.profile != "" {
		return c.profile, nil
	}
	p, err := c.svc.GetProfile("me").Do()
	if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	c.profile = p.EmailAddress
	return c.profile, nil
}

// ListMessageIDs lists message IDs matching the query, capped at maxResults
// with no further pagination. This is the bounded-sampling primitive: the
// sampler deliberately looks at one page per period.
func (c *Client) ListMessageIDs(q string, maxResults int64) ([]string, error) {
	req := c.svc.Messages.List("me").Q(q).Fields("messages/id,nextPageToken")
	if maxResults > 0 {
		req = req.MaxResults(maxResults)
	}
	res, err := req.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// ListAllMessageIDs lists every message ID matching the query, following
// nextPageToken until the result set is exhausted. Used to collect the full
// input for sweep and purge operations.
func (c *Client) ListAllMessageIDs(q string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		req := c.svc.Messages.List("me").Q(q).Fields("messages/id,nextPageToken")
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}
		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		if res.NextPageToken == "" {
			return ids, nil
		}
		pageToken = res.NextPageToken
	}
}

// MessageHeaders fetches only the named metadata headers for one message.
// The returned map contains an entry per header that is present on the
// message; absent headers are simply missing from the map.
func (c *Client) MessageHeaders(id string, headers []string) (map[string]string, error) {
	req := c.svc.Messages.Get("me", id).Format("metadata")
	if len(headers) > 0 {
		req = req.MetadataHeaders(headers...)
	}
	msg, err := req.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return headerMap(msg), nil
}

// BatchModify applies a label mutation to all given message IDs in one call.
// Gmail label add/remove is idempotent, so retrying a batch that partially
// applied is safe.
func (c *Client) BatchModify(ids []string, addLabels, removeLabels []string) error {
	err := c.svc.Messages.BatchModify("me", &gmail.BatchModifyMessagesRequest{
		Ids:            ids,
		AddLabelIds:    addLabels,
		RemoveLabelIds: removeLabels,
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to batch modify %d messages: %w", len(ids), err)
	}
	return nil
}

// DeleteMessage permanently deletes one message. This bypasses the trash and
// cannot be undone.
func (c *Client) DeleteMessage(id string) error {
	if err := c.svc.Messages.Delete("me", id).Do(); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", id, err)
	}
	return nil
}

// headerMap flattens a message's payload headers into a name -> value map.
// Header names keep their original casing; lookups in this codebase use the
// canonical Gmail casing (From, List-Unsubscribe, Subject, Date).
func headerMap(m *gmail.Message) map[string]string {
	out := make(map[string]string)
	if m == nil || m.Payload == nil {
		return out
	}
	for _, h := range m.Payload.Headers {
		if _, ok := out[h.Name]; !ok {
			out[h.Name] = h.Value
		}
	}
	return out
}
