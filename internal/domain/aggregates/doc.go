// Package aggregates defines the write boundaries of the recipe domain:
// the quantity ledger, the recipe aggregate, membership sets and the
// subscription graph, plus the error taxonomy they report with.
//
// Contracts avoid persistence details; implementations live in
// internal/data/aggregates.
package aggregates
