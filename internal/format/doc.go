// Package format renders values for table output.
package format
