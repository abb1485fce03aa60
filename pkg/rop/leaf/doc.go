// Package leaf holds ready-made leaf nodes and discriminators for pipelines
// that post-process model replies: JSON extraction with repair, pass-through
// taps and JSON field discriminators.
package leaf
