// Package sampler implements time-stratified sampling of a mailbox.
//
// A sampling run covers one age band (recent, old or very-old), split into
// three fixed relative-time periods. Each period is searched with an
// unsubscribe-signal content filter and a per-period result cap; when the
// filtered pool stays below a threshold, a broader unfiltered query for the
// same period tops it up. Results across all periods are deduplicated into a
// single insertion-ordered pool of message IDs.
//
// The pool is bounded by cap x periods (nominally ~500) and is rebuilt from
// scratch on every run; nothing persists between runs.
package sampler
