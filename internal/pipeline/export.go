package pipeline

import (
	"bytes"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stocky2coast/internal/config"
	"stocky2coast/internal/model"
)

// ------------------- Artifact Building -------------------

// RenderCart serializes the cart in the vendor's column order with the
// configured delimiter, decimal places and quoting style. Lines are
// terminated with "\n" so the same lines always produce the same bytes.
func RenderCart(lines []model.OutputLine, cfg *config.VendorConfig) ([]byte, error) {
	places := int32(cfg.Output.DecimalPlaces)

	records := make([][]string, 0, len(lines)+1)
	records = append(records, append([]string(nil), cfg.Output.Columns...))
	for _, line := range lines {
		record := make([]string, len(cfg.Output.Columns))
		for i, col := range cfg.Output.Columns {
			switch col {
			case "Item Id":
				record[i] = line.ItemID
			case "Qty Ordered":
				record[i] = fmt.Sprintf("%d", line.Qty)
			case "Unit Price":
				record[i] = line.UnitPrice.StringFixed(places)
			case "Extended Price":
				record[i] = line.ExtendedPrice.StringFixed(places)
			}
		}
		records = append(records, record)
	}

	return renderRecords(records, cfg.Output.Delimiter, cfg.Output.Quoting)
}

// renderRecords applies one of the four quoting styles. The header row is
// treated as non-numeric under the nonnumeric style, matching csv.QUOTE_NONNUMERIC.
func renderRecords(records [][]string, delimiter, quoting string) ([]byte, error) {
	if quoting == config.QuoteMinimal {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		w.Comma = []rune(delimiter)[0]
		if err := w.WriteAll(records); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	for rowIdx, record := range records {
		cells := make([]string, len(record))
		for i, cell := range record {
			switch quoting {
			case config.QuoteAll:
				cells[i] = quoteCell(cell)
			case config.QuoteNonNumeric:
				if rowIdx == 0 || !isNumericCell(cell) {
					cells[i] = quoteCell(cell)
				} else {
					cells[i] = cell
				}
			case config.QuoteNone:
				if strings.Contains(cell, delimiter) || strings.ContainsAny(cell, "\"\n\r") {
					return nil, fmt.Errorf("quoting \"none\": field %q needs quoting", cell)
				}
				cells[i] = cell
			}
		}
		buf.WriteString(strings.Join(cells, delimiter))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func quoteCell(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

func isNumericCell(cell string) bool {
	if cell == "" {
		return false
	}
	dot := false
	for i, r := range cell {
		switch {
		case r >= '0' && r <= '9':
		case r == '-' && i == 0:
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

// ContentHash computes the idempotent-naming hash over the PO number, the
// vendor identifier and the byte-exact cart content. Same inputs and config
// always give the same hash, hence the same file name.
func ContentHash(po, vendor string, cart []byte) string {
	h := md5.New()
	fmt.Fprintf(h, "%s\n%s\n", po, vendor)
	h.Write(cart)
	return hex.EncodeToString(h.Sum(nil))[:8]
}

// CartFileName builds the cart artifact name from PO, a UTC timestamp
// (YYYYMMDD-HHMM) and the content hash.
func CartFileName(po, timestamp, hash string) string {
	return fmt.Sprintf("cart_%s_%s_%s.csv", po, timestamp, hash)
}

// RenderQuarantine serializes quarantined rows with their original canonical
// fields plus the reason column.
func RenderQuarantine(rows []model.QuarantinedRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"SKU", "Qty Ordered", "Cost (base)", "Total Cost (base)", "Reason"}); err != nil {
		return nil, err
	}
	for _, q := range rows {
		record := []string{
			q.Row.SKU,
			fmt.Sprintf("%d", q.Row.Qty),
			q.Row.UnitCost.String(),
			q.Row.TotalCost.String(),
			q.Reason,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// RenderSummaryMarkdown renders the human-readable run summary.
func RenderSummaryMarkdown(s model.RunSummary) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# PO %s Summary\n\n", s.PO)
	fmt.Fprintf(&b, "- Vendor: `%s`\n", s.Vendor)
	fmt.Fprintf(&b, "- Mode: `%s`\n", s.Mode)
	fmt.Fprintf(&b, "- Output: `%s`\n", filepath.Base(s.OutputFile))
	fmt.Fprintf(&b, "- Rows in/out: %d → %d (quarantined: %d)\n", s.RowsIn, s.RowsOut, s.RowsQuarantined)
	fmt.Fprintf(&b, "- Total Qty: %d\n", s.TotalQty)
	fmt.Fprintf(&b, "- Total Extended: $%s\n", s.TotalExtendedPrice.StringFixed(2))
	if len(s.VarianceFlags) > 0 {
		fmt.Fprintf(&b, "- **Variance Flags** (>20%% vs history): %d\n", len(s.VarianceFlags))
	}
	return []byte(b.String())
}

// WriteArtifacts persists the full artifact set into the run directory and
// returns the cart path. Callers must have finished every fatal check first:
// nothing here fails validation, it only records the run's outcome.
func WriteArtifacts(runDir, cartName string, cart []byte, lineage []model.LineageEntry, summary model.RunSummary, quarantine []model.QuarantinedRow) (string, error) {
	cartPath := filepath.Join(runDir, cartName)
	if err := os.WriteFile(cartPath, cart, 0644); err != nil {
		return "", fmt.Errorf("failed to write cart: %w", err)
	}

	lineageJSON, err := json.MarshalIndent(lineage, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, "lineage.json"), lineageJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to write lineage: %w", err)
	}

	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, "summary.json"), summaryJSON, 0644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "summary.md"), RenderSummaryMarkdown(summary), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary.md: %w", err)
	}

	if len(quarantine) > 0 {
		q, err := RenderQuarantine(quarantine)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(runDir, "quarantine.csv"), q, 0644); err != nil {
			return "", fmt.Errorf("failed to write quarantine: %w", err)
		}
	}

	fmt.Printf("💾 Export Summary: %d artifact(s) written to %s\n", 4+min(len(quarantine), 1), runDir)
	return cartPath, nil
}
