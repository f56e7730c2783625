// Package recent ties the recent-items pieces together for the commands.
//
// A [Service] discovers installations, pulls the freshest record file into
// an in-memory store, answers ranked queries against it and pushes every
// removal or restore back to all record files. During refresh it takes a
// daily backup when auto_backup is enabled.
package recent
