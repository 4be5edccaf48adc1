// Package catalog defines the shared data types for cataloged items and
// externally sourced candidate records.
//
// A Candidate is one source's description of a product, produced by the
// crawler and immutable afterward. A QueryItem is a locally known item
// being resolved against the candidate indexes.
package catalog
