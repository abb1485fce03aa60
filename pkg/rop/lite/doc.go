// Package lite lifts a flow node over channels for batch and stream
// processing: each input runs through the same node on a fixed number of
// lines.
//
// Common usage:
// - Feed: turn a slice into an input channel
// - Run: execute a node over an input channel with a fixed number of lines
// - Collect: gather streamed items back into input order
// - Finally: map each Result[In] to Out on completion
package lite
