package flow

import (
	"context"

	"github.com/ib-77/ropchain/pkg/rop"
)

// Node is the single capability every chain element implements. Execute is a
// blocking call that turns one input into exactly one outcome. Name is for
// diagnostics only and never used for lookup.
type Node[In, Out any] interface {
	Execute(ctx context.Context, in In) rop.Result[Out]
	Name() string
}

// Kind identifies the chain shape that produced an event or error.
type Kind string

const (
	KindFunction    Kind = "function"
	KindSerial      Kind = "serial"
	KindPipe        Kind = "pipe"
	KindParallel    Kind = "parallel"
	KindConditional Kind = "conditional"
	KindLoop        Kind = "loop"
	KindMerge       Kind = "merge"
	KindTimeout     Kind = "timeout"
)

func nameOr(name string, kind Kind) string {
	if name == "" {
		return string(kind)
	}
	return name
}
