// Package events defines the event payloads published by the executor.
package events

import "time"

// ExecutionStart is emitted when an operation begins executing.
type ExecutionStart struct {
	OperationName string
	OperationType string
}

// ExecutionFinish is emitted once an operation's response is complete.
type ExecutionFinish struct {
	OperationName string
	OperationType string
	ErrorCount    int
	Duration      time.Duration
}

// ResolveStart is emitted before a field resolver runs.
type ResolveStart struct {
	ParentType string
	Field      string
	Path       string
}

// ResolveFinish is emitted after a field resolver returns. Err is the
// resolver's error, if any; it does not cover completion failures.
type ResolveFinish struct {
	ParentType string
	Field      string
	Path       string
	Err        error
	Duration   time.Duration
}
