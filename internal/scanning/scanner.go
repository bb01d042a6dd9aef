package scanning

import "context"

// Sentinel values substituted when the provider omits a field
const (
	NotAvailable  = "N/A"
	UnknownVendor = "Unknown Vendor"
)

// Upload is a receipt image as received from the client
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReceiptData contains normalized information extracted from a receipt
type ReceiptData struct {
	ID     string
	Vendor string
	Total  float64
	Date   string // YYYY-MM-DD or N/A
	Items  []string
}

// Scanner defines the interface for receipt extraction providers
type Scanner interface {
	// ScanReceipt sends the upload to the provider and normalizes its response
	ScanReceipt(ctx context.Context, upload Upload) (*ReceiptData, error)
}
