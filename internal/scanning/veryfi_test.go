package scanning

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

var _ = Describe("Veryfi", func() {
	var (
		provider *ghttp.Server
		config   VeryfiConfig
		client   *http.Client
		logger   *slog.Logger
		upload   Upload
		data     *ReceiptData
		err      error
	)

	BeforeEach(func() {
		provider = ghttp.NewServer()
		config = VeryfiConfig{
			APIURL:   provider.URL() + "/api/v8/partner/documents/",
			ClientID: "client-1",
			Username: "jdoe",
			APIKey:   "secret",
		}
		client = nil
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		upload = Upload{
			Filename:    "receipt.jpg",
			ContentType: "image/jpeg",
			Data:        []byte("fake image data"),
		}
	})

	AfterEach(func() {
		provider.Close()
	})

	JustBeforeEach(func() {
		var scanner *Veryfi
		scanner, err = NewVeryfi(config, client, logger)
		Expect(err).NotTo(HaveOccurred())
		data, err = scanner.ScanReceipt(context.Background(), upload)
	})

	When("the provider returns a receipt", func() {
		BeforeEach(func() {
			provider.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/v8/partner/documents/"),
				ghttp.VerifyHeader(http.Header{
					"Accept":        []string{"application/json"},
					"Client-Id":     []string{"client-1"},
					"Authorization": []string{"apikey jdoe:secret"},
				}),
				func(w http.ResponseWriter, r *http.Request) {
					defer GinkgoRecover()
					f, header, err := r.FormFile("file")
					Expect(err).NotTo(HaveOccurred())
					defer f.Close()
					Expect(header.Filename).To(Equal("receipt.jpg"))
					Expect(header.Header.Get("Content-Type")).To(Equal("image/jpeg"))
					body, err := io.ReadAll(f)
					Expect(err).NotTo(HaveOccurred())
					Expect(string(body)).To(Equal("fake image data"))
				},
				ghttp.RespondWith(http.StatusOK, `{"date":"2024-03-15 10:30:00","vendor":{"name":"Acme Co"},"total":42.5,"line_items":[{"description":"Widget"}],"id":"abc123"}`),
			))
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should forward the upload once", func() {
			Expect(provider.ReceivedRequests()).To(HaveLen(1))
		})

		It("should return the normalized data", func() {
			Expect(data).To(Equal(&ReceiptData{
				ID:     "abc123",
				Vendor: "Acme Co",
				Total:  42.5,
				Date:   "2024-03-15",
				Items:  []string{"Widget"},
			}))
		})
	})

	When("the provider returns a large numeric id", func() {
		BeforeEach(func() {
			provider.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{"id":12345678901234567891,"total":9.99}`))
		})

		It("should keep every digit of the id", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(data.ID).To(Equal("12345678901234567891"))
			Expect(data.Total).To(Equal(9.99))
		})
	})

	When("the upload has no content type", func() {
		BeforeEach(func() {
			upload.ContentType = ""
			provider.AppendHandlers(ghttp.CombineHandlers(
				func(w http.ResponseWriter, r *http.Request) {
					defer GinkgoRecover()
					_, header, err := r.FormFile("file")
					Expect(err).NotTo(HaveOccurred())
					Expect(header.Header.Get("Content-Type")).To(Equal("application/octet-stream"))
				},
				ghttp.RespondWith(http.StatusOK, `{}`),
			))
		})

		It("should send it as octet-stream", func() {
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("the provider returns an error status", func() {
		BeforeEach(func() {
			provider.AppendHandlers(ghttp.RespondWith(http.StatusUnauthorized, `{"status":"fail","error":"Not Authorized"}`))
		})

		It("returns ErrProviderStatus", func() {
			Expect(err).To(MatchError(ErrProviderStatus))
		})

		It("returns no data", func() {
			Expect(data).To(BeNil())
		})
	})

	When("the provider returns something other than JSON", func() {
		BeforeEach(func() {
			provider.AppendHandlers(ghttp.RespondWith(http.StatusOK, `<html>bad gateway</html>`))
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("the provider returns a JSON array", func() {
		BeforeEach(func() {
			provider.AppendHandlers(ghttp.RespondWith(http.StatusOK, `[]`))
		})

		It("returns the error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("a line item has no description", func() {
		BeforeEach(func() {
			provider.AppendHandlers(ghttp.RespondWith(http.StatusOK, `{"line_items":[{"quantity":1}]}`))
		})

		It("returns ErrMissingDescription", func() {
			Expect(err).To(MatchError(ErrMissingDescription))
		})
	})

	When("the network fails", func() {
		BeforeEach(func() {
			client = &http.Client{Transport: failingTransport{}}
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ContainSubstring("connection refused")))
		})
	})
})

var _ = Describe("NewVeryfi", func() {
	It("requires credentials", func() {
		_, err := NewVeryfi(VeryfiConfig{APIURL: "http://localhost"}, nil, nil)
		Expect(err).To(HaveOccurred())
	})

	It("requires an api url", func() {
		_, err := NewVeryfi(VeryfiConfig{ClientID: "a", Username: "b", APIKey: "c"}, nil, nil)
		Expect(err).To(HaveOccurred())
	})
})
