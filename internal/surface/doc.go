// Package surface builds one consistent, fully-normalized snapshot of every
// open market on the venue.
//
// A build walks the events-with-nested-markets listing, reconciles orphan
// markets from the flat listing, optionally prefetches order books for the
// top-N markets by volume, and rolls up per-category aggregates. Partial
// page failures truncate the affected stream and are flagged in the summary
// counts; they never abort the build.
package surface
