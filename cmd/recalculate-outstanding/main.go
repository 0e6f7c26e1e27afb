package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/config"
	"github.com/NtechSol-Team/Shiv-AgroNet-Plastoc-ERP-Managment-sub000/workflow"
)

// Recomputes party outstanding balances from documents and allocations,
// repairing any drift in the stored projection. Safe to re-run.
func main() {
	partyID := flag.Int("party-id", 0, "Optional: recalculate a single party id")
	dryRun := flag.Bool("dry-run", false, "Scan only (no writes)")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	config.ConnectRedis()
	logger := config.GetLogger()

	if *partyID > 0 {
		tx := db.Begin()
		if err := workflow.AcquirePartyPostingLock(tx, *partyID); err != nil {
			_ = tx.Rollback()
			fmt.Fprintf(os.Stderr, "failed: %v\n", err)
			os.Exit(1)
		}
		result, err := workflow.RecalculateOutstanding(tx, logger, *partyID)
		workflow.ReleasePartyPostingLock(tx, *partyID)
		if err != nil {
			_ = tx.Rollback()
			fmt.Fprintf(os.Stderr, "failed: %v\n", err)
			os.Exit(1)
		}
		if *dryRun {
			_ = tx.Rollback()
		} else if err := tx.Commit().Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("party_id=%d previous=%s recomputed=%s adjusted=%t dry_run=%t\n",
			result.PartyId, result.Previous.String(), result.Recomputed.String(), result.Adjusted, *dryRun)
		return
	}

	if *dryRun {
		fmt.Fprintln(os.Stderr, "--dry-run requires --party-id (the batch run commits per party)")
		os.Exit(2)
	}

	results, err := workflow.RunReconciliation(context.Background(), db, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed after %d parties: %v\n", len(results), err)
		os.Exit(1)
	}
	adjusted := 0
	for _, r := range results {
		if r.Adjusted {
			adjusted++
			fmt.Printf("party_id=%d previous=%s recomputed=%s\n", r.PartyId, r.Previous.String(), r.Recomputed.String())
		}
	}
	fmt.Printf("parties=%d adjusted=%d\n", len(results), adjusted)
}
