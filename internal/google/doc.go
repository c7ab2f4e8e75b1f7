// Package google handles OAuth2 authentication against Google for the Gmail
// API.
//
// Tokens are cached per account under the user cache directory
// (~/.cache/mailsweep on Linux). The flow is the installed-application flow:
// the auth command prints an authorization URL, the user pastes the resulting
// code back, and the exchanged token pair is stored as a two-field text file.
//
// OAuth client credentials are read from MAILSWEEP_GOOGLE_CLIENT_ID and
// MAILSWEEP_GOOGLE_CLIENT_SECRET.
package google
