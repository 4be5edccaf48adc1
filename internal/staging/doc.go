// Package staging persists scraped candidates in SQLite for admin review.
//
// The Store manages database connections, schema initialization, the
// approved house catalog, and the staged_houses/staged_accessories review
// tables. Staged rows carry the full confidence factor breakdown and, for
// accessories, the suggested house links, serialized as JSON so the
// review UI sees exactly what the scoring engine computed.
//
// Nothing is merged into the houses table automatically: approval is an
// explicit status transition recorded with a timestamp, and rejected rows
// are kept for audit rather than deleted.
//
// Schema changes bump the version in schema.go; the database refuses to
// open at a mismatched version rather than migrating silently.
package staging
