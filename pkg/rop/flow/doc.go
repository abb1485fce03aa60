// Package flow is a composable execution engine. Leaf transformations are
// wrapped as nodes and wired into pipelines of five shapes, each of which is
// itself a Node and can be nested in any other:
//
// - Serial / Pipe: output of one stage feeds the next; fail-fast
// - Parallel: every child gets the same input on a bounded pool of lines;
// failures stay in their slot and siblings are unaffected
// - Conditional: a discriminator picks exactly one branch; no silent no-op
// - Loop: repeat a body while a predicate holds, up to a hard ceiling
// - Merge / FanIn / Gather: turn an ordered list of outcomes into one value;
// strict by default
//
// Every call yields a rop.Result. Errors identify where a run stopped:
// *LeafError, *StageError, *UnmatchedBranchError, *IncompleteMergeError and
// *TimeoutError, matched with errors.Is / errors.As.
//
// Chains are built once and are safe to execute from many goroutines. The
// engine starts goroutines only inside a ParallelChain (and a TimeoutNode)
// and waits for them before returning.
//
// Diagnostics are opt-in per call: attach an Observer with WithObserver and
// every node reports an Event when it finishes. A panicking observer is
// ignored.
package flow
