package model

import "github.com/shopspring/decimal"

// RawRow is one typed record from the Stocky purchase-order export.
// RowID is the 0-based position of the row in the input file and is fixed
// for the lifetime of the run (lineage is keyed on it).
type RawRow struct {
	RowID     int             `json:"row_id"`
	SKU       string          `json:"sku"`
	Qty       int             `json:"qty_ordered"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// QuarantinedRow is a raw row excluded from the cart in soft-validate mode,
// together with the reason it was excluded.
type QuarantinedRow struct {
	Row    RawRow `json:"row"`
	Reason string `json:"reason"`
}

// AggregatedLine is one cart entry per distinct SKU among the valid rows.
// Quantities and totals are sums over the contributing rows; RowIDs records
// the contributing input rows in original order.
type AggregatedLine struct {
	SKU       string          `json:"sku"`
	Qty       int             `json:"qty_ordered"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
	RowIDs    []int           `json:"row_ids"`
}

// OutputLine is an AggregatedLine after normalization, in the vendor cart
// schema. Money fields are rounded copies; the aggregated line is untouched.
type OutputLine struct {
	ItemID        string          `json:"item_id"`
	Qty           int             `json:"qty_ordered"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ExtendedPrice decimal.Decimal `json:"extended_price"`
}

// LineageEntry maps an output SKU to the input rows that contributed to it.
type LineageEntry struct {
	SKU    string `json:"SKU"`
	RowIDs []int  `json:"row_ids"`
}

// VarianceFlag marks a SKU whose new unit cost moved more than the variance
// threshold against the price history reference.
type VarianceFlag struct {
	SKU      string          `json:"sku"`
	LastCost decimal.Decimal `json:"last_cost"`
	NewCost  decimal.Decimal `json:"new_unit_cost"`
	Delta    decimal.Decimal `json:"delta"`
}

// RunSummary is the aggregate counter set for one run. It is threaded through
// the pipeline stages as an explicit accumulator and finalized once at the
// end; it is never derived from anything but the run's own entities.
type RunSummary struct {
	PO                 string          `json:"po"`
	Vendor             string          `json:"vendor"`
	Mode               string          `json:"mode"`
	SkuPattern         string          `json:"sku_pattern,omitempty"`
	InputFile          string          `json:"input_file"`
	OutputFile         string          `json:"output_file"`
	RowsIn             int             `json:"rows_in"`
	RowsValidated      int             `json:"rows_validated"`
	RowsQuarantined    int             `json:"rows_quarantined"`
	RowsOut            int             `json:"rows_out"`
	TotalQty           int             `json:"total_qty"`
	TotalExtendedPrice decimal.Decimal `json:"total_extended_price"`
	VarianceFlags      []VarianceFlag  `json:"variance_flags"`
	Status             string          `json:"status"`
}

// RunSpec is the full configuration of a single conversion run. It is the
// request body for POST /api/v1/runs and the product of the CLI flags.
type RunSpec struct {
	PO           string `json:"po"`
	Input        string `json:"input"`
	Outdir       string `json:"outdir"`
	PriceHistory string `json:"price_history,omitempty"`
	SoftValidate bool   `json:"soft_validate"`
	SkuPattern   string `json:"sku_pattern,omitempty"`
	Vendor       string `json:"vendor,omitempty"`
	VendorConfig string `json:"vendor_config,omitempty"`
}

// Mode reports the validation mode label used in summaries and tracking.
func (s RunSpec) Mode() string {
	if s.SoftValidate {
		return "soft-validate"
	}
	return "strict"
}
