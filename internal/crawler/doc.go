// Package crawler provides the same-domain crawl engine for datadiver.
//
// # Architecture
//
// The package is designed around the Spider type, which owns the crawl
// frontier (pending and visited URL sets) and drives fetches in
// concurrency-bounded, batch-synchronous rounds: up to Concurrency pages
// are fetched in parallel, the whole batch is joined, and only then are
// the discovered links folded back into the frontier. This trades some
// throughput for a simple, auditable bound on in-flight requests and a
// trivial termination check.
//
// # Components
//
//   - Spider: the crawl engine; frontier management, batching, statistics
//   - Parser: HTML metadata and link extraction built on goquery
//
// # Termination
//
// Termination is guaranteed by three mechanisms working together:
//   - the visited set only grows, so no URL is fetched twice
//   - the page budget (MaxPages) is a hard stop on successful fetches
//   - the frontier cap (2x MaxPages) bounds memory on sites with very
//     high branching factor or infinitely-generating URL spaces
//
// # Error model
//
// Individual fetch failures never abort a run: a transport error, timeout,
// or non-HTML response simply counts the page as filtered and the crawl
// continues. The only run-level failures are an unparseable seed URL
// (ErrInvalidSeed) and a run that produced zero records (ErrNoPages).
package crawler
