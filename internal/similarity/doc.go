// Package similarity computes bounded fuzzy similarity scores between
// strings on a 0-100 scale.
//
// Product names from scraped catalogs vary in word order and carry elided
// or extra qualifier words ("Set of 2", year suffixes). No single strategy
// handles all of that, so the package offers several token-based scorers
// and BestScore, which takes the maximum across them. Callers bound false
// positives with a minimum-score floor rather than by picking a single
// strict strategy.
package similarity
