package search

// FetchWithBackoff exposes fetchWithBackoff to the package tests.
var FetchWithBackoff = (*Searcher).fetchWithBackoff
