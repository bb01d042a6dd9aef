package receipt

// Receipt is the normalized result of processing an uploaded receipt.
// Every field is always present; missing provider data becomes a sentinel.
type Receipt struct {
	ID       string   `json:"id"`
	Vendor   string   `json:"vendor"`
	Total    float64  `json:"total"`
	Category string   `json:"category"`
	Date     string   `json:"date"`
	Items    []string `json:"items"`
	LogoURL  string   `json:"logoUrl"`
}

// CategoryUpdate is a client correction of a receipt's category
type CategoryUpdate struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

// UpdateConfirmation acknowledges a CategoryUpdate. Nothing is stored.
type UpdateConfirmation struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Message  string `json:"message"`
}
