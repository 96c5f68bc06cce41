package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"stocky2coast/internal/model"
	"stocky2coast/pkg/utils"
)

// ------------------- Ingestion / Schema Validation -------------------

// Canonical input columns and their accepted header aliases (case-insensitive).
// Alias resolution happens once here; later stages only see canonical fields.
var stockyAliases = map[string][]string{
	"SKU":               {"SKU", "Sku", "Item Id", "ItemID"},
	"Qty Ordered":       {"Qty Ordered", "Quantity Ordered", "Qty"},
	"Cost (base)":       {"Cost (base)", "Unit Cost (base)", "Unit Cost", "Cost"},
	"Total Cost (base)": {"Total Cost (base)", "Extended Price", "Total"},
}

// inCols fixes the resolution order so error messages are stable.
var inCols = []string{"SKU", "Qty Ordered", "Cost (base)", "Total Cost (base)"}

// ReadTable reads a Stocky CSV export into typed rows. Header resolution is
// table-wide and fails the whole run before any row is coerced; cell coercion
// failures are fatal too, regardless of validation mode.
func ReadTable(path string) ([]model.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := readTable(file)
	if err != nil {
		return nil, err
	}
	fmt.Printf("📄 Ingestion done: %d rows read from %s\n", len(rows), path)
	return rows, nil
}

func readTable(r io.Reader) ([]model.RawRow, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols, err := resolveColumns(headers)
	if err != nil {
		return nil, err
	}

	var rows []model.RawRow
	for rowID := 0; ; rowID++ {
		record, err := csvReader.Read()
		if err == io.EOF {
			return rows, nil
		} else if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}

		row, err := coerceRow(rowID, record, cols)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// resolveColumns maps each canonical column to a physical header index via
// the alias table. Exact header matches win over case-insensitive ones.
func resolveColumns(headers []string) (map[string]int, error) {
	clean := make([]string, len(headers))
	lower := make(map[string]int, len(headers))
	exact := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
		clean[i] = h
		if _, ok := exact[h]; !ok {
			exact[h] = i
		}
		if _, ok := lower[strings.ToLower(h)]; !ok {
			lower[strings.ToLower(h)] = i
		}
	}

	cols := make(map[string]int, len(inCols))
	var missing []string
	for _, canonical := range inCols {
		idx := -1
		for _, alias := range stockyAliases[canonical] {
			if i, ok := exact[alias]; ok {
				idx = i
				break
			}
			if i, ok := lower[strings.ToLower(alias)]; ok {
				idx = i
				break
			}
		}
		if idx < 0 {
			missing = append(missing, canonical)
			continue
		}
		cols[canonical] = idx
	}
	if len(missing) > 0 {
		return nil, &model.SchemaError{Missing: missing}
	}
	return cols, nil
}

// coerceRow types a single record under the canonical schema.
func coerceRow(rowID int, record []string, cols map[string]int) (model.RawRow, error) {
	cell := func(canonical string) string {
		i := cols[canonical]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	row := model.RawRow{RowID: rowID}

	row.SKU = utils.CleanSKU(cell("SKU"))
	if row.SKU == "" {
		return row, &model.FieldTypeError{Column: "SKU", RowID: rowID, Value: cell("SKU")}
	}

	qty, err := utils.ParseQty(cell("Qty Ordered"))
	if err != nil {
		return row, &model.FieldTypeError{Column: "Qty Ordered", RowID: rowID, Value: cell("Qty Ordered")}
	}
	row.Qty = qty

	row.UnitCost, err = utils.ParseMoney(cell("Cost (base)"))
	if err != nil {
		return row, &model.FieldTypeError{Column: "Cost (base)", RowID: rowID, Value: cell("Cost (base)")}
	}

	row.TotalCost, err = utils.ParseMoney(cell("Total Cost (base)"))
	if err != nil {
		return row, &model.FieldTypeError{Column: "Total Cost (base)", RowID: rowID, Value: cell("Total Cost (base)")}
	}

	return row, nil
}
