package categorize

import "fmt"

// categorizePrompt is shared by the LLM backends
const categorizePrompt = `You are categorizing an expense from a purchase receipt.

Vendor: %s
Allowed categories: %s

Reply with exactly one category from the allowed list that best describes a purchase from this vendor.
If the list is empty, reply with a short generic spending category (e.g. "Grocery", "Travel").
If nothing fits, reply with "Other".
Reply with the category name only. No punctuation, no explanation, no markdown.`

func buildPrompt(vendor, categories string) string {
	return fmt.Sprintf(categorizePrompt, vendor, categories)
}
