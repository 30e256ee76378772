// Package scan runs the five contradiction detectors over a normalized
// market surface.
//
// Each detector is a pure function of (markets, events): no network, no
// shared state, deterministic output. Running twice on the same surface
// yields identical opportunity lists, ordered per detector by descending
// profit with ties broken by the first involved ticker. Markets missing a
// field a detector needs are skipped by that detector only.
package scan
