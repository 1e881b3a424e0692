package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"RiskLens/internal/domain/models"
	"RiskLens/internal/services/risk"
	xhttp "RiskLens/pkg/http"
)

func snapshotCmd() *cobra.Command {
	var req models.ScenarioRequest
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Compute one snapshot and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verr := xhttp.ValidateStruct(cmd.Context(), &req); verr != nil {
				return fmt.Errorf("invalid shock: %v", verr)
			}
			app, cleanup, err := buildApp()
			if err != nil {
				return err
			}
			defer cleanup()

			snap := app.Snapshots().FetchAggregateSnapshot(cmd.Context())
			if shocks := req.Shocks(); !shocks.IsZero() {
				snap = risk.ApplyShock(snap, shocks)
			}
			return writeJSON(cmd.OutOrStdout(), snap)
		},
	}
	cmd.Flags().Float64Var(&req.InterestRate, "shock-ir", 0, "interest rate shock in percent (-5..5)")
	cmd.Flags().Float64Var(&req.FX, "shock-fx", 0, "FX shock in percent (-10..10)")
	cmd.Flags().Float64Var(&req.CommodityPrice, "shock-commodity", 0, "commodity price shock in percent (-20..20)")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
