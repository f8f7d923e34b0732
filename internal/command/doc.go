// Package command turns decoded request frames into typed commands and
// executes them against a Store.
//
// Parsing is strict about arity and argument types. A request whose name
// is not known parses as Unrecognized, which executes as a no-op replying
// OK. Parsing and execution hold no state of their own; all sharing
// happens inside the Store.
package command
