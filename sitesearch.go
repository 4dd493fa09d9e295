// Package sitesearch provides a small site search engine. It crawls a single
// website, extracts the visible text of every HTML page, stores it in a
// full-text index, and answers fuzzy ranked queries with highlighted snippets
// and did-you-mean suggestions.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package sitesearch
