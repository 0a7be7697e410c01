package resolve

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// modelColumn is the header of the column naming the model a row grants on.
const modelColumn = "model_id:id"

// AccessTable is the parsed access-control table of a module.
type AccessTable struct {
	Path string
	// Models holds the distinct model identifiers found in the table.
	Models map[string]struct{}
	// Rows holds each data row's text, fields joined by commas.
	Rows []string
}

// ReadAccessTable scans a row-oriented access table. The model column is
// taken from the header when present; otherwise every field that looks like a
// model row key contributes a model identifier.
func ReadAccessTable(r io.Reader) (*AccessTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	table := &AccessTable{Models: make(map[string]struct{})}
	column := -1
	first := true

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if first {
			first = false
			if idx := indexOf(record, modelColumn); idx >= 0 {
				column = idx
				continue
			}
		}

		table.Rows = append(table.Rows, strings.Join(record, ","))

		if column >= 0 {
			if column < len(record) {
				table.addModel(record[column])
			}
			continue
		}
		for _, field := range record {
			if strings.HasPrefix(stripModule(field), ModelRowPrefix) {
				table.addModel(field)
			}
		}
	}

	return table, nil
}

// HasRow reports whether any row's text contains key.
func (t *AccessTable) HasRow(key string) bool {
	for _, row := range t.Rows {
		if strings.Contains(row, key) {
			return true
		}
	}
	return false
}

// HasModel reports whether key is one of the table's model identifiers.
func (t *AccessTable) HasModel(key string) bool {
	_, ok := t.Models[key]
	return ok
}

func (t *AccessTable) addModel(field string) {
	field = stripModule(strings.TrimSpace(field))
	if field != "" {
		t.Models[field] = struct{}{}
	}
}

// ModelRowPrefix prefixes every canonical model row key.
const ModelRowPrefix = "model_"

// ModelRowKey derives the canonical access-table key of a model name:
// "sale.order" becomes "model_sale_order".
func ModelRowKey(model string) string {
	return ModelRowPrefix + strings.ReplaceAll(model, ".", "_")
}

// stripModule removes a "module." external-id qualifier.
func stripModule(ref string) string {
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func indexOf(record []string, name string) int {
	for i, field := range record {
		if strings.TrimSpace(field) == name {
			return i
		}
	}
	return -1
}
