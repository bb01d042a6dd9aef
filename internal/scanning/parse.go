package scanning

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

const (
	providerDateLayout = "2006-01-02 15:04:05"
	receiptDateLayout  = "2006-01-02"
)

// ErrMissingDescription is returned when a line item carries no description
var ErrMissingDescription = errors.New("line item has no description")

// lookup evaluates a JSONPath expression against the decoded provider document.
// The second return value is false when the path does not resolve or resolves to null.
func lookup(doc any, path string) (any, bool) {
	val, err := jsonpath.Get(path, doc)
	if err != nil || val == nil {
		return nil, false
	}
	return val, true
}

// parseReceiptJSON normalizes the decoded provider response
func parseReceiptJSON(doc map[string]any) (*ReceiptData, error) {
	items, err := parseItems(doc)
	if err != nil {
		return nil, err
	}

	return &ReceiptData{
		ID:     parseID(doc),
		Vendor: parseVendor(doc),
		Total:  parseTotal(doc),
		Date:   parseDate(doc),
		Items:  items,
	}, nil
}

// parseDate reformats "YYYY-MM-DD HH:MM:SS" to "YYYY-MM-DD"; anything else is N/A
func parseDate(doc map[string]any) string {
	val, ok := lookup(doc, "$.date")
	if !ok {
		return NotAvailable
	}
	raw, ok := val.(string)
	if !ok || raw == "" {
		return NotAvailable
	}
	parsed, err := time.Parse(providerDateLayout, raw)
	if err != nil {
		return NotAvailable
	}
	return parsed.Format(receiptDateLayout)
}

func parseVendor(doc map[string]any) string {
	val, ok := lookup(doc, "$.vendor.name")
	if !ok {
		return UnknownVendor
	}
	name, ok := val.(string)
	if !ok {
		return UnknownVendor
	}
	return name
}

func parseTotal(doc map[string]any) float64 {
	val, ok := lookup(doc, "$.total")
	if !ok {
		return 0.0
	}
	switch total := val.(type) {
	case json.Number:
		f, err := total.Float64()
		if err != nil {
			return 0.0
		}
		return f
	case float64:
		return total
	default:
		return 0.0
	}
}

// parseID renders the provider id as a string. Veryfi ids are integers,
// decoded as json.Number so large values keep every digit.
func parseID(doc map[string]any) string {
	val, ok := lookup(doc, "$.id")
	if !ok {
		return NotAvailable
	}
	switch id := val.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

// parseItems collects line item descriptions in order. Every item must have a
// string description; a missing or null one fails the whole receipt.
func parseItems(doc map[string]any) ([]string, error) {
	items := make([]string, 0)

	val, ok := lookup(doc, "$.line_items")
	if !ok {
		return items, nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("line_items is %T, not a list", val)
	}

	for i, raw := range list {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("line item %d: %w", i, ErrMissingDescription)
		}
		desc, ok := item["description"].(string)
		if !ok {
			return nil, fmt.Errorf("line item %d: %w", i, ErrMissingDescription)
		}
		items = append(items, desc)
	}

	return items, nil
}
