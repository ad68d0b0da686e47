// Package env assembles the variable namespaces a run executes against:
// process-level variables (ambient environment plus the collection-root
// .env file), a named environment's declared variables with command-line
// overrides applied, and the mutable collection-scoped variable store.
package env
