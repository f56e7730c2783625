package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/recents/internal/log"
	"github.com/raphi011/recents/internal/output"
	"github.com/raphi011/recents/internal/recent"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Refresh whenever a recent items list changes",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Watch the record files of every installation and re-read the
freshest one whenever the IDE writes it. Runs until interrupted.

This also takes the daily backup as soon as it is due.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			l := log.FromContext(ctx)

			svc, err := loadService(ctx)
			if err != nil {
				return err
			}
			out.Printf("Watching %s\n", plural(len(svc.Entries()), "entry", "entries"))

			return svc.Watch(ctx, func(res recent.RefreshResult, err error) {
				if err != nil {
					l.Warnf("refresh failed: %v", err)
					return
				}
				out.Printf("Refreshed %s from %s\n", plural(res.Entries, "entry", "entries"), res.Source.Path)
				if res.BackedUp {
					l.Printf("Saved daily backup\n")
				}
			})
		},
	}
}
