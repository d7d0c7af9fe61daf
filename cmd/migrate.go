package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"db-reshape/internal/engine"
	"db-reshape/internal/plan"
	"db-reshape/internal/schema"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dryRun  bool
	autoYes bool
)

// addMigrateFlags registers the flags shared by commands that migrate.
func addMigrateFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without touching the database")
	cmd.Flags().BoolVarP(&autoYes, "yes", "y", false, "Apply without asking for confirmation")
}

// loadBaseline reads the remote schema and wraps it in an edit model.
func loadBaseline(cmd *cobra.Command, store engine.Store) (*schema.Model, error) {
	log.Println("Analyzing schema...")
	doc, err := store.Schema(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to read remote schema: %w", err)
	}
	log.Printf("Found %d tables", len(doc.Tables))
	return schema.NewModel(doc), nil
}

// migrate plans the edits recorded in m and, once confirmed, applies them to
// store and checks the result.
func migrate(cmd *cobra.Command, store engine.Store, m *schema.Model) error {
	// 1. Check
	if err := m.Check(); err != nil {
		return fmt.Errorf("refusing to plan: %w", err)
	}

	// 2. Plan
	out := cmd.OutOrStdout()
	summary := m.Summary()
	printSummary(out, summary)
	p := plan.Build(m)
	if p.Len() == 0 {
		return nil
	}
	printPlan(out, p)

	if dryRun {
		log.Println("[SIMULATION] Dry-Run Mode Active: No changes will be applied.")
		return nil
	}

	// 3. Confirm
	if !autoYes && viper.GetBool("settings.confirm") && !promptUser() {
		log.Println("Aborted.")
		return nil
	}

	log.Printf("Applying %d operations...", p.Len())
	start := time.Now()

	// 4. Execute
	onProgress := func(engine.Result) {}
	if viper.GetBool("settings.progress") {
		uiprogress.Start()
		bar := uiprogress.AddBar(p.Len()).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Migrating: "
		})
		onProgress = func(engine.Result) { bar.Incr() }
	}
	results, err := engine.NewMigrator(store).Apply(cmd.Context(), p, onProgress)
	if viper.GetBool("settings.progress") {
		uiprogress.Stop()
	}
	printResults(out, results)

	if err != nil {
		var opErr *engine.OperationError
		if errors.As(err, &opErr) {
			fmt.Fprintf(os.Stderr, "%d of %d operations were applied and are not rolled back; reload the schema before editing again.\n",
				engine.Applied(results), p.Len())
		}
		return err
	}

	// 5. Verify
	mismatches, err := engine.Verify(cmd.Context(), store, schema.Serialize(m))
	if err != nil {
		return fmt.Errorf("failed to verify migration: %w", err)
	}
	printMismatches(out, mismatches)

	log.Printf("Migration Done! Time Elapsed: %s", time.Since(start))
	return nil
}
