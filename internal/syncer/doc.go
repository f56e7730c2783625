// Package syncer reconciles the in-memory entry store with the record files
// of every known IDE installation.
//
// # Pull
//
// [Engine.Pull] reads only the freshest source (greatest modification time)
// and replaces the store wholesale. The IDE is the single writer of a record
// while it runs, so merging divergent histories is never attempted. If the
// chosen source cannot be read the store is left untouched.
//
// # Push
//
// [Engine.Push] serializes the store once and writes the result into every
// source in parallel. Each source is its own failure domain: a missing file,
// a held lock, or a document without the recent-items node fails that source
// only. The outcome of each write is reported in a [Result].
//
// Writes to the same source are serialized in-process with a per-path mutex
// and across processes with a sibling lock file (see package lock). A held
// lock is retried for a bounded time and then reported as [ErrSourceLocked].
//
// # Cancellation
//
// A context that is already done prevents an operation from starting. Once
// started, Pull and Push run to completion regardless of cancellation so
// that shared state is never left half-applied.
package syncer
