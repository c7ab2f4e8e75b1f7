// Package senders turns a sample pool into a ranked top-senders table.
//
// The aggregator fetches only the From and List-Unsubscribe headers per
// pooled message and groups message IDs by the raw From header value.
// Per-message fetch faults and missing From headers silently drop the
// message; a sampling run never fails because individual metadata fetches do.
//
// Ranking sorts senders by sampled volume with stable first-seen tie
// breaking, truncates to the top ten, and attaches a display percentage
// against the fixed nominal sample size of 500.
package senders
