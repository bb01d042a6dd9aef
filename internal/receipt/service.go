package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zombor/receipt-processor/internal/categorize"
	"github.com/zombor/receipt-processor/internal/scanning"
)

const (
	updateMessage        = "Category updated successfully"
	invalidUpdateMessage = "Invalid data. Receipt ID and category are required."
)

var (
	// ErrInvalidUpdate is returned when a category update lacks an id or category
	ErrInvalidUpdate = errors.New("receipt id and category are required")

	// ErrInvalidCategories is returned when the candidate category list is not a JSON string array
	ErrInvalidCategories = errors.New("invalid categories")
)

// LogoFinder resolves a vendor name to a logo URL. It never fails; an empty
// string means no logo.
type LogoFinder interface {
	Find(ctx context.Context, vendor string) string
}

// Service runs the receipt extraction pipeline
type Service struct {
	scanner     scanning.Scanner
	categorizer categorize.Categorizer
	logos       LogoFinder
	logger      *slog.Logger
}

// NewService creates a new Service
func NewService(scanner scanning.Scanner, categorizer categorize.Categorizer, logos LogoFinder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		scanner:     scanner,
		categorizer: categorizer,
		logos:       logos,
		logger:      logger,
	}
}

// ParseCategories decodes the JSON-encoded candidate category list
func ParseCategories(raw string) ([]string, error) {
	var categories []string
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCategories, err)
	}
	return categories, nil
}

// ProcessReceipt extracts the receipt, assigns a category and looks up the vendor logo.
// The steps run in order; only the logo lookup is allowed to fail silently.
func (s *Service) ProcessReceipt(ctx context.Context, upload scanning.Upload, categories []string) (*Receipt, error) {
	data, err := s.scanner.ScanReceipt(ctx, upload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to scan receipt",
			"filename", upload.Filename,
			"content_type", upload.ContentType,
			"file_size", len(upload.Data),
			"error", err,
		)
		return nil, fmt.Errorf("scanning receipt: %w", err)
	}

	category, err := s.categorizer.Categorize(ctx, data.Vendor, categorize.Join(categories))
	if err != nil {
		return nil, fmt.Errorf("categorizing receipt: %w", err)
	}

	items := data.Items
	if items == nil {
		items = []string{}
	}

	receipt := &Receipt{
		ID:       data.ID,
		Vendor:   data.Vendor,
		Total:    data.Total,
		Category: category,
		Date:     data.Date,
		Items:    items,
		LogoURL:  s.logos.Find(ctx, data.Vendor),
	}

	s.logger.DebugContext(ctx, "Final receipt data", "receipt", receipt)
	return receipt, nil
}

// UpdateCategory acknowledges a category correction
func (s *Service) UpdateCategory(ctx context.Context, update CategoryUpdate) (*UpdateConfirmation, error) {
	s.logger.DebugContext(ctx, "Received update request", "id", update.ID, "category", update.Category)

	if update.ID == "" {
		s.logger.WarnContext(ctx, "Receipt id is missing")
	}
	if update.Category == "" {
		s.logger.WarnContext(ctx, "Category is missing")
	}
	if update.ID == "" || update.Category == "" {
		return nil, ErrInvalidUpdate
	}

	return &UpdateConfirmation{
		ID:       update.ID,
		Category: update.Category,
		Message:  updateMessage,
	}, nil
}
