// Package pipeline runs named steps in sequence over a shared state value.
//
// The popup's scan chain is a pipeline: each suspension point (availability
// probe, tab query, extraction, submission) is a Step that reads and fills
// the state of the current scan. The pipeline checks for cancellation
// before every step and logs each one under its name.
package pipeline
