// Package ingest extracts catalog rows from collector Word documents.
//
// The documents follow a household convention: page one names a house
// (first line) and its main accessory (second line), later pages describe
// one accessory each. Pages are recovered from explicit page breaks in
// word/document.xml; item numbers, years, and cross-references are then
// mined from the page text with fixed patterns.
//
// Parsing never touches the database; Stage writes a parsed document
// into the staging store so ingested rows go through the same review
// workflow as crawled ones.
package ingest
