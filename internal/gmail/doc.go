// Package gmail provides a thin client over the Gmail API for mailsweep.
//
// The client exposes exactly the mailbox primitives the analysis and sweep
// engines need:
//   - capped message search (bounded sampling, one page per period query)
//   - fully paginated message search (sweep and purge input)
//   - metadata-only header fetches
//   - bulk label mutation (trash and archive)
//   - single-message permanent delete
//
// Query-string construction helpers for senders, categories and the trash
// live in types.go. Authentication uses the unified Google OAuth token from
// the google package; tokens are cached under ~/.cache/mailsweep/.
package gmail
