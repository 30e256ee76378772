// Package model defines the value types shared across the scanner pipeline.
//
// Conventions:
//   - Prices: integer cents (0-100), *int with nil meaning "no quote"
//   - Timestamps: ISO 8601 strings as returned by the venue
//   - Tickers: dash-separated, series prefix first (e.g. "KXBTCD-25AUG26-60000")
//
// Market and Event are immutable snapshots created fresh on every surface
// build. Opportunity and RankedInversion are pure derived values recomputed
// on every scan.
package model
