// Package pipeline fetches bill history pages from the legislature's site,
// probes each session's bill numbers in order and hands every parsed bill to
// a store.
package pipeline
