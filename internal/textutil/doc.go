// Package textutil provides text canonicalization for product name and
// item number comparison.
//
// The primary use cases are:
//   - Normalizing free-text names and manufacturer codes from scraped
//     catalogs so they can be compared across sources
//   - Tokenizing normalized text for token-based similarity scoring
//
// Normalization lowercases, folds diacritics, applies a small table of
// domain rewrites (brand short forms, possessives), strips punctuation
// except the hyphens and periods that appear inside item numbers, and
// collapses whitespace. Normalize is pure and idempotent.
package textutil
