// Package restful is a declarative HTTP data-fetching facade. A Provider
// carries a base URL and inherited request options; a Fetch owns one request
// lifecycle (idle -> loading -> success|error) against a path relative to
// that base and republishes the outcome as data/error/loading state to a
// render callback. Providers nest: a child provider's base is the parent's
// base plus a path segment, so fetchers deep in a hierarchy only name their
// local segment.
package restful
