package scanning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// ErrProviderStatus is returned when the provider answers with a non-2xx status
var ErrProviderStatus = errors.New("unexpected provider status")

// VeryfiConfig holds the endpoint and credentials for the Veryfi documents API
type VeryfiConfig struct {
	APIURL   string
	ClientID string
	Username string
	APIKey   string
}

// authorization builds the credential string Veryfi expects
func (c VeryfiConfig) authorization() string {
	return fmt.Sprintf("apikey %s:%s", c.Username, c.APIKey)
}

// Veryfi implements the Scanner interface using the Veryfi OCR API
type Veryfi struct {
	config VeryfiConfig
	client *http.Client
	logger *slog.Logger
}

// NewVeryfi creates a new Veryfi Scanner instance.
// The client has no timeout unless the caller configures one.
func NewVeryfi(config VeryfiConfig, client *http.Client, logger *slog.Logger) (*Veryfi, error) {
	if config.APIURL == "" {
		return nil, fmt.Errorf("veryfi api url is required")
	}
	if config.ClientID == "" || config.Username == "" || config.APIKey == "" {
		return nil, fmt.Errorf("veryfi client id, username and api key are required")
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Veryfi{
		config: config,
		client: client,
		logger: logger,
	}, nil
}

// ScanReceipt forwards the upload to Veryfi and normalizes the extracted fields
func (v *Veryfi) ScanReceipt(ctx context.Context, upload Upload) (*ReceiptData, error) {
	body, contentType, err := encodeUpload(upload)
	if err != nil {
		return nil, fmt.Errorf("encoding upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.config.APIURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Client-Id", v.config.ClientID)
	req.Header.Set("Authorization", v.config.authorization())

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling veryfi API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w %d: %s", ErrProviderStatus, resp.StatusCode, string(respBody))
	}

	var doc map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decoding response: provider returned null")
	}
	v.logger.DebugContext(ctx, "Veryfi response", "data", doc)

	data, err := parseReceiptJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing receipt data: %w", err)
	}

	return data, nil
}

// encodeUpload writes the upload as the "file" part of a multipart body,
// keeping the client's filename and content type
func encodeUpload(upload Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(upload.Filename)))
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
