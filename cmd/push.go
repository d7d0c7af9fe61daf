package cmd

import (
	"fmt"
	"os"

	"db-reshape/internal/schema"

	"github.com/spf13/cobra"
)

var sourceFile string

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Make the database schema match a source document",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(sourceFile)
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}
		target, err := schema.Deserialize(data)
		if err != nil {
			return err
		}

		store := newStore()
		m, err := loadBaseline(cmd, store)
		if err != nil {
			return err
		}
		if err := m.Reconcile(target); err != nil {
			return err
		}

		fmt.Println(warnf("Renamed tables and columns are treated as deleted and added again. Their data will be lost."))
		return migrate(cmd, store, m)
	},
}

func init() {
	RootCmd.AddCommand(pushCmd)
	pushCmd.Flags().StringVar(&sourceFile, "source", "", "JSON source document")
	pushCmd.MarkFlagRequired("source")
	addMigrateFlags(pushCmd)
}
