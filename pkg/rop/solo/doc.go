// Package solo contains single-value, synchronous ROP primitives that operate
// on Result[T]. The flow engine builds every node out of these.
//
// Highlights:
// - Switch: move from Result[In] to Result[Out]
// - Map/Try: transform successful values, Try converting errors to failures
// - MapErr: rewrite the error of a non-successful result
// - Tee/DoubleTee: side-effect helpers
// - Finally: reduce to a concrete value via success/error/cancel handlers
// - Recover: turn panics into failures
package solo
