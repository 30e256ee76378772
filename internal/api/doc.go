// Package api provides the signed Kalshi REST client used by the scanner.
//
// Every request passes through a shared sliding-window rate limiter and a
// weighted in-flight semaphore before hitting the network, so concurrent
// callers collectively respect the venue's request budget. Transient
// failures (429, 5xx, transport errors) are retried on a fixed backoff
// schedule and then surfaced as ErrUnavailable, which callers treat as
// "no data for this request".
//
// Endpoints:
//   - GET /exchange/status
//   - GET /events?status=open&with_nested_markets=true&limit=200[&cursor=]
//   - GET /markets?status=open&limit=1000[&cursor=]
//   - GET /markets/{ticker}/orderbook?depth=0
package api
