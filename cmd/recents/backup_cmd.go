package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/recents/internal/output"
	"github.com/raphi011/recents/internal/recent"
)

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "backup",
		Short:   "Save the recent items list as the backup",
		GroupID: GroupBackup,
		Args:    cobra.NoArgs,
		Long: `Save the current recent items list as the backup.

A backup is also taken automatically once a day when auto_backup is enabled.
Only one backup is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := loadService(ctx)
			if err != nil {
				return err
			}

			snap, err := svc.UpdateBackup(ctx)
			if err != nil {
				return err
			}

			output.FromContext(ctx).Printf("Saved backup of %s\n", plural(snap.Len(), "entry", "entries"))
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "restore",
		Short:   "Replace the recent items list with the backup",
		GroupID: GroupBackup,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := loadService(ctx)
			if err != nil {
				return err
			}

			restored, err := svc.RevertToBackup(ctx)
			if errors.Is(err, recent.ErrNoBackup) {
				return fmt.Errorf("%w (run 'recents backup' first)", err)
			}
			if err != nil {
				return err
			}
			if err := reportPush(ctx, restored.Push); err != nil {
				return err
			}

			output.FromContext(ctx).Printf("Restored %s from %s backup\n",
				plural(restored.Snapshot.Len(), "entry", "entries"),
				restored.Snapshot.TakenAt.Local().Format(time.DateTime))
			return nil
		},
	}
}
