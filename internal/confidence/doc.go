// Package confidence turns an aggregated multi-source match into one
// overall confidence score, a qualitative category, and a recommended
// review action.
//
// Eight independently computed factors feed a fixed weighted sum. Each
// factor is explainable on its own so review tooling can show why a match
// scored the way it did. The weight table is an explicit configuration
// structure validated at construction; weights that do not sum to 1.0 are
// rejected outright rather than silently renormalized, since
// renormalization would make scores incomparable across runs.
package confidence
