package cmd

import (
	"fmt"
	"os"

	"db-reshape/internal/schema"

	"github.com/spf13/cobra"
)

var outFile string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the database schema as a source document",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadBaseline(cmd, newStore())
		if err != nil {
			return err
		}
		data, err := schema.MarshalDocument(schema.Serialize(m))
		if err != nil {
			return err
		}
		if outFile == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		if err := os.WriteFile(outFile, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outFile, err)
		}
		fmt.Printf("Schema written to %s\n", outFile)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&outFile, "output", "o", "", "Write the document to a file instead of stdout")
}
