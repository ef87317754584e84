// Package aggregates defines the planner's write boundaries: the typed inputs,
// results and error codes of every operation that must commit atomically.
package aggregates
