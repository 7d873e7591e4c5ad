// Package mocks provides in-memory fake implementations of the store
// interfaces for unit testing. The fakes keep the real set semantics of the
// reconciliation primitives (guarded push, conditional and unconditional
// pulls) and a small predicate matcher covering the query operators the
// tests exercise.
package mocks
