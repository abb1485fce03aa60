// Package rop defines Result[T], the success/failure/cancel outcome every
// operation in this module returns, plus small helpers for inspecting
// joined errors and result slices.
package rop
