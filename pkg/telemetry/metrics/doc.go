// Package metrics provides Prometheus metrics for the policy service.
//
// A Collector owns the registry and the metric families for the three
// instrumented surfaces: document mutations (per command, applied vs
// rejected), translation requests (including stale responses dropped by the
// last-request-wins gate), and the document itself (version, container and
// condition counts). Handler exposes the registry for scraping.
package metrics
