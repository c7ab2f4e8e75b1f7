// Package sweep executes bulk state changes against a mailbox.
//
// The mutator applies a label mutation (trash, archive) to an arbitrarily
// large message list through a self-tuning batch loop: three consecutive
// successful calls double the batch size up to a ceiling, any failure halves
// it down to a floor and retries the same refs, and three consecutive
// failures at the floor abort the job with the partial count. The sizing
// logic lives in a pure step function over an explicit job state, so the
// whole policy is unit-testable without a gateway.
//
// The purger permanently deletes trash contents one message at a time in
// fixed chunks; individual failures are counted and skipped.
package sweep
