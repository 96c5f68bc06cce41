package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stocky2coast/internal/model"
	"stocky2coast/internal/pipeline"
)

func newRootCmd() *cobra.Command {
	var spec model.RunSpec

	cmd := &cobra.Command{
		Use:   "stocky2coast",
		Short: "Convert a Stocky PO CSV to a vendor cart CSV with validation",
		Long: `stocky2coast validates a Stocky purchase-order export, collapses duplicate
SKUs, normalizes money fields and writes the vendor cart CSV together with
audit artifacts (summary, lineage, quarantine, run log).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := pipeline.Run(cmd.Context(), spec.PO, spec)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&spec.PO, "po", "", "PO number, e.g. 1848")
	cmd.Flags().StringVar(&spec.Input, "input", "", "Path to Stocky CSV (po_XXXX.csv)")
	cmd.Flags().StringVar(&spec.Outdir, "outdir", "runs", "Output directory for artifacts")
	cmd.Flags().StringVar(&spec.PriceHistory, "price-history", "", "Optional price_history.csv with columns SKU,LastCost")
	cmd.Flags().BoolVar(&spec.SoftValidate, "soft-validate", false, "Quarantine rows failing business rules instead of failing the run")
	cmd.Flags().StringVar(&spec.SkuPattern, "sku-pattern", "", "Optional regex to validate SKU format; overrides vendor config if provided")
	cmd.Flags().StringVar(&spec.Vendor, "vendor", "", "Built-in vendor config (vendor_configs/<name>.yml)")
	cmd.Flags().StringVar(&spec.VendorConfig, "vendor-config", "", "Path to a YAML vendor config")

	cobra.CheckErr(cmd.MarkFlagRequired("po"))
	cobra.CheckErr(cmd.MarkFlagRequired("input"))
	cmd.MarkFlagsMutuallyExclusive("vendor", "vendor-config")

	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if model.IsValidationError(err) {
			fmt.Fprintf(os.Stderr, "VALIDATION ERROR:\n%v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}
}
