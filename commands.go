package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"educa_backend/internals/helpers/dbtime"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print directory counts and the last backup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(ctxOf(cmd))
			if err != nil {
				return err
			}
			defer rt.close()

			schools, students := rt.dir.Counts()
			last := "never"
			if at := rt.dir.LastBackup(); at != nil {
				last = dbtime.Format(at)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schools: %d\nstudents: %d\nlast backup: %s\n", schools, students, last)
			return nil
		},
	}
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Record that a backup was taken now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(ctxOf(cmd))
			if err != nil {
				return err
			}
			defer rt.close()

			at, err := rt.dir.RegisterBackup(ctxOf(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backup registered at %s\n", dbtime.Format(&at))
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default dataset (destroys current data)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			rt, err := bootstrap(ctxOf(cmd))
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.dir.Reset(ctxOf(cmd)); err != nil {
				return err
			}
			schools, students := rt.dir.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "directory reset: %d schools, %d students\n", schools, students)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive reset")
	return cmd
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
