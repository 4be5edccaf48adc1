// Package matching aggregates candidate records from every configured
// source for a single query item.
//
// For each source the aggregator keeps the one candidate with the highest
// combined name/code similarity, provided it clears the minimum-score
// floor. Sources with nothing above the floor are simply absent from the
// result; an empty result is the normal outcome for an unmatched item,
// not an error.
package matching
