// Package catalog talks to remote STAC catalog endpoints and manages which
// one is active.
//
// # Overview
//
// The package is split across four files:
//
//   - client.go: HTTP client for a single STAC API endpoint
//   - connector.go: active-source management and the collection cache
//   - search.go: asynchronous search execution over the active source
//   - types.go: STAC data structures and the search request body
//
// # Client
//
// Client speaks the two STAC API operations kestrel needs:
//
//   - GET /collections: the source's collection list
//   - POST /search: item search with filters
//
// Requests take a context, send Accept and User-Agent headers, and wrap
// every failure with what was being attempted. The endpoint string may omit
// the scheme; https is assumed.
//
// # Connector
//
// The Connector owns the active source. SwitchSource builds a client for
// the new endpoint and proves it usable by loading its collections before
// the switch takes effect. A failing endpoint is retried a fixed number of
// times with a fixed delay before the switch is reported as failed, in
// which case the previous source stays active.
//
// Collection lists are held in a patrickmn/go-cache with a TTL, keyed by
// source id, so switching back to a recently used source does not refetch.
// CollectionsReady reports whether the active source's list is populated,
// which gates filter restoration after a cold start.
//
// # Executor
//
// Executor runs searches off the caller's goroutine. Run tags the request
// with a UUID, logs it, executes against the active client with a timeout,
// and publishes a SearchResults event on the bus whether the search
// succeeded, failed or returned nothing. Results retains the latest result
// set for synchronous readers.
//
// Overlapping runs are allowed; a newer Run supersedes an older one and the
// older completion is dropped before it can overwrite the result set.
//
// # Error Handling
//
// Network and decode failures from Client come back wrapped:
//
//   - "fetch collections: execute request: ..."
//   - "search: catalog returned status 502"
//
// The connector and executor log these and degrade (keep the old source,
// publish an empty result set) rather than propagate them to the UI as
// hard failures.
package catalog
