// Package git resolves the current branch of directories referenced by
// recent entries.
//
// Branches are read with the git CLI ([os/exec]) rather than a Go git
// library so that worktrees, alternate git dirs and user configuration are
// honored exactly as git itself sees them.
//
// # Resolution Policy
//
//   - The inspected directory is the parent of a project/solution file, or
//     the path itself for files and folders ([BranchDir]).
//   - Without a .git marker in that directory no process is started and the
//     branch is [entry.NoBranch].
//   - With a marker, "git rev-parse --abbrev-ref HEAD" runs with a bounded
//     timeout. Any failure (git missing, non-zero exit, timeout, empty
//     output) resolves to [entry.NoBranch].
//
// [Resolver.Annotate] resolves a whole collection with bounded parallelism
// and queries each distinct directory once.
package git
