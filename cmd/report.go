package cmd

import (
	"fmt"
	"io"
	"strconv"

	"db-reshape/internal/engine"
	"db-reshape/internal/plan"
	"db-reshape/internal/schema"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const (
	answerApply = "Apply"
	answerAbort = "Abort"
)

var (
	warnf   = color.New(color.FgHiWhite, color.BgHiRed).SprintfFunc()
	okf     = color.New(color.FgGreen).SprintfFunc()
	removef = color.New(color.FgRed).SprintfFunc()
)

// printSummary writes the pending changes overview, e.g. "+1, -2 tables".
func printSummary(w io.Writer, s schema.Summary) {
	if s.Empty() {
		fmt.Fprintln(w, "No changes.")
		return
	}
	fmt.Fprintf(w, "\n📝 Pending changes: %s\n", color.CyanString(s.String()))
}

// printPlan renders the planned operations, destructive ones highlighted.
func printPlan(w io.Writer, p *plan.Plan) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"#", "Phase", "Operation"})
	tbl.SetAutoWrapText(false)
	for i, op := range p.Ops {
		desc := op.String()
		switch {
		case plan.Destructive(op):
			desc = removef("%s", desc)
		case isAdd(op):
			desc = okf("%s", desc)
		}
		tbl.Append([]string{strconv.Itoa(i + 1), op.Phase().String(), desc})
	}
	tbl.Render()
}

func isAdd(op plan.Op) bool {
	switch op.(type) {
	case *plan.CreateTable, *plan.AddColumn:
		return true
	}
	return false
}

// printResults renders the outcome of every planned operation.
func printResults(w io.Writer, results []engine.Result) {
	fmt.Fprintln(w, "\n📊 Summary Report (Execution Order):")
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"#", "Operation", "Status", "Time", "Error"})
	tbl.SetAutoWrapText(false)
	for i, r := range results {
		status := r.Status
		switch r.Status {
		case engine.StatusOK:
			status = okf("✓ %s", status)
		case engine.StatusFailed:
			status = warnf("! %s", status)
		default:
			status = color.YellowString("- %s", status)
		}
		elapsed := ""
		if r.Status != engine.StatusSkipped {
			elapsed = r.Elapsed.String()
		}
		tbl.Append([]string{strconv.Itoa(i + 1), r.Op.String(), status, elapsed, r.ErrorMsg})
	}
	tbl.Render()
}

// printMismatches reports differences found after a migration.
func printMismatches(w io.Writer, ms []engine.Mismatch) {
	if len(ms) == 0 {
		fmt.Fprintln(w, okf("✓ Remote schema matches the edited schema"))
		return
	}
	fmt.Fprintln(w, warnf("Remote schema differs from the edited schema:"))
	for _, m := range ms {
		fmt.Fprintf(w, "    └ %s\n", m)
	}
}

// promptUser asks for confirmation before running the plan.
func promptUser() bool {
	prompt := promptui.Select{
		Label: "Are you sure?",
		Items: []string{answerApply, answerAbort},
	}
	_, result, err := prompt.Run()
	cobra.CheckErr(err)
	return result == answerApply
}
