// Package main hosts the curator CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the catalog workflows: crawling
// retailer sites into the candidate index, resolving local items against
// that index, scoring house-accessory compatibility, reviewing the
// staging queue, ingesting collector documents, and configuration
// scaffolding. It centralizes configuration resolution and logger setup
// so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the
// internal packages first, then surface it through dedicated commands or
// flags here.
package main
