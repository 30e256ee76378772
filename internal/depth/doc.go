// Package depth re-prices monotonicity inversions against live orderbooks
// and ranks them by executable profit times fillable size.
package depth
