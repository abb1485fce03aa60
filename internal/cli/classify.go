package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ib-77/ropchain/pkg/rop"
	"github.com/ib-77/ropchain/pkg/rop/core"
	"github.com/ib-77/ropchain/pkg/rop/flow"
	"github.com/ib-77/ropchain/pkg/rop/leaf"
	"github.com/ib-77/ropchain/pkg/rop/lite"
)

const unknownDifficulty = -1

// Answer is the routed reply of the classify pipeline.
type Answer struct {
	Difficulty int    `json:"difficulty"`
	Route      string `json:"route"`
	Content    string `json:"content"`
	Reason     string `json:"complex_reason,omitempty"`
}

// Classifier decodes a model reply carrying a difficulty score and routes
// it to the handler of that level. Replies without a usable score fall back
// to the direct handler.
func Classifier() flow.Node[string, Answer] {
	difficulty := leaf.IntField("difficulty", unknownDifficulty)
	content := leaf.StringField("content", "")
	reason := leaf.StringField("complex_reason", "")

	direct := flow.Map("classify.direct", func(m map[string]any) Answer {
		return Answer{Difficulty: 0, Route: "direct", Content: content(m), Reason: reason(m)}
	})

	escalate := func(level int) flow.Node[map[string]any, Answer] {
		return flow.Map(fmt.Sprintf("classify.level%d", level), func(m map[string]any) Answer {
			return Answer{
				Difficulty: level,
				Route:      fmt.Sprintf("level%d", level),
				Content:    content(m),
				Reason:     reason(m),
			}
		})
	}

	fallback := flow.Map("classify.fallback", func(m map[string]any) Answer {
		return Answer{Difficulty: unknownDifficulty, Route: "fallback", Content: content(m), Reason: reason(m)}
	})

	route := flow.Conditional("classify.route", difficulty, map[int]flow.Node[map[string]any, Answer]{
		0: direct,
		1: escalate(1),
		2: escalate(2),
		3: escalate(3),
	}).Otherwise(fallback)

	return flow.Pipe[string, map[string]any, Answer]("classify", leaf.ExtractJSON[map[string]any]("classify.extract"), route)
}

// Classify runs every reply through one shared classifier, up to the
// worker cap carried by ctx at a time, and returns outcomes in reply order.
func Classify(ctx context.Context, replies []string) []rop.Result[Answer] {
	lines := core.GetWorkerMaxCount(ctx, runtime.NumCPU())
	return lite.Collect(ctx, lite.Run(ctx, lite.Feed(ctx, replies), Classifier(), lines), len(replies))
}
