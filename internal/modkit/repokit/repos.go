// Package repokit provides common types and helpers for repository implementations
package repokit

import "winscope/internal/platform/store"

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// Rows are the result set of a query
type Rows = store.Rows
