// Package core contains concurrency plumbing: worker configuration carried
// through context and the bounded pool of lines that ParallelChain runs its
// children on. It does not define business logic.
package core
