// Package batch supervises sequential per-item work with operator-driven
// failure recovery.
//
// Items are processed strictly one at a time and in order. When the work
// function fails for an item, a decision callback is consulted before
// anything else happens:
//   - Retry runs the work function again on the same item, as many times as
//     the callback keeps asking for it
//   - Skip records the item as failed and moves on to the next one
//
// The supervisor never retries on its own and never gives up on an item by
// itself. Each item moves through the states
//
//	Pending -> Succeeded
//	Pending -> AwaitingDecision -> Pending      (Retry)
//	Pending -> AwaitingDecision -> Failed       (Skip)
//
// implemented as a loop, so an unbounded number of retries does not grow the
// call stack.
package batch
