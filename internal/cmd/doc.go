// Package cmd provides helpers for executing external commands with proper error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, while keeping the original error wrapped so callers can still
// tell a missing executable from a non-zero exit.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
//	if err != nil {
//	    // err contains stderr output if available
//	}
//
// Commands are echoed through the context logger when verbose mode is on.
//
// # Design Notes
//
// External collaborators (the IDE locator, git) are invoked as processes
// rather than linked libraries so that user configuration such as git
// credential helpers and installed IDE versions are honored as-is.
package cmd
