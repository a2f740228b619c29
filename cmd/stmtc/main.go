// Package main provides a CLI for compiling statement descriptors into
// dialect-specific SQL.
//
// The CLI supports:
//   - compile: Translate YAML statement descriptors for a target dialect
//   - inspect: Snapshot the indexes of live tables for offline compiles
//   - dialects: Print the dialect capability table
//
// Usage:
//
//	stmtc [flags] <command>
//
// Upserts and emulated batch inserts need index metadata. compile reads it
// from a snapshot (--indexes) or from the database configured in stmtc.yaml.
package main

func main() {
	Execute()
}
