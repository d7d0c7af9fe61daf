package cmd

import (
	"fmt"
	"os"

	"db-reshape/internal/script"

	"github.com/spf13/cobra"
)

var scriptFile string

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Apply an edit script to the database schema",
	Long: `Replays the steps of a YAML edit script on the current schema, then plans
and applies the resulting migration. Renames are kept as renames.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(scriptFile)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		s, err := script.Load(f)
		if err != nil {
			return err
		}

		store := newStore()
		m, err := loadBaseline(cmd, store)
		if err != nil {
			return err
		}
		if err := script.Apply(m, s.Steps); err != nil {
			return err
		}
		return migrate(cmd, store, m)
	},
}

func init() {
	RootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&scriptFile, "script", "", "YAML edit script")
	editCmd.MarkFlagRequired("script")
	addMigrateFlags(editCmd)
}
