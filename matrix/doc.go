// SPDX-License-Identifier: MIT

// Package matrix is the linear-algebra side of assembly: it turns rank-2
// sparse output into a matrix object.
//
// What & Why:
//
//	Assembly produces unreduced coordinate records (row, col, value). A
//	Backend consumes those records, sums duplicates and returns a Matrix
//	in its own storage layout. Three layouts are provided:
//
//	  - Dense: row-major flat slice; O(rows*cols) memory.
//	  - CSR:   compressed sparse rows with sorted column indices; O(nnz).
//	  - Gonum: a *mat.Dense, for handing results to gonum routines.
//
// Complexity:
//
//	Rows() and Cols() run in O(1) time.
//	Dense At/Set run in O(1); CSR At/Set in O(log nnz_row).
//	Clone performs a deep copy.
package matrix
