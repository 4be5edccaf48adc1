// Package linking scores how likely each cataloged house is the "home" of
// an accessory.
//
// Product pages rarely state house-accessory relationships outright, so
// the linker combines five indirect signals: shared series, shared
// collection, name patterns, relationship phrases mined from description
// text, and year/code proximity. Every contributing signal is recorded as
// a human-readable reason so the ranked suggestions stay auditable.
//
// The house snapshot is loaded once per linking session and treated as
// read-only; callers needing freshness reload it explicitly. Results are
// sorted by descending score and ties keep the snapshot's scan order.
package linking
