// Package aggregates implements the recipe domain write boundaries.
//
// Implementations compose table-level repos from internal/data/repos and own
// the transaction of every invariant-critical write: ledger replacement,
// recipe create/update/delete, membership add/remove and follow/unfollow.
package aggregates
