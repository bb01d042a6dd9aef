package categorize

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewGemini", func() {
	When("the API key is empty", func() {
		It("returns an error without creating a client", func() {
			gemini, err := NewGemini("", "", nil)
			Expect(err).To(MatchError(ContainSubstring("gemini api key is required")))
			Expect(gemini).To(BeNil())
		})
	})
})
