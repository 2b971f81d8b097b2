// Package dispatch turns one authenticated user request into task
// executions and aggregates their results.
//
// Two execution modes exist, selected by deployment configuration:
//
//   - crew: a single planning pipeline bound to every tool; an executor
//     failure fails the whole request.
//   - split: one isolated single-tool task per capability, run
//     sequentially; a task failure becomes a failure-tagged result and the
//     other task still runs.
//
// Results are independent by construction: no task's outcome can block or
// discard another's.
package dispatch
