// Package output renders inventory results as the plain text returned by
// MCP tools.
//
// All functions are pure. Empty inputs produce a single "No ... found in ..."
// sentence; non-empty lists produce a heading line followed by one
// "- name (...)" line per item, each newline-terminated.
package output
