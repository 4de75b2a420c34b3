package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// maxSDSChars bounds the document text forwarded to the model.
const maxSDSChars = 24000

// SDSInput carries the extracted text of a safety data sheet.
type SDSInput struct {
	FileName string
	Text     string
}

// ExtractChemicalFromText asks the model to read a safety data sheet and
// return the chemical identity and hazard ratings it describes.
func (c *Client) ExtractChemicalFromText(ctx context.Context, input SDSInput, opts FetchOptions) (Profile, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return Profile{}, errors.New("ai: safety data sheet text must not be empty")
	}
	if len(text) > maxSDSChars {
		text = text[:maxSDSChars]
	}

	systemPrompt := `You read laboratory Safety Data Sheets (SDS) and convert them into JSON.
- Section 1 identifies the product; section 9 gives the physical state; section 2 lists GHS pictograms.
- If NFPA ratings are not printed, derive them from the hazard statements.
- Respond with strictly valid JSON using this schema:
{
  "name": string,
  "formula": string,
  "cas_number": string,
  "category": string,
  "state": "SOLID" | "LIQUID" | "GAS",
  "nfpa_health": integer 0-4,
  "nfpa_flammability": integer 0-4,
  "nfpa_instability": integer 0-4,
  "nfpa_special": string,
  "ghs_pictograms": [string]
}
- Never include explanations, markdown, or commentary outside of the JSON payload.`

	var builder strings.Builder
	if name := strings.TrimSpace(input.FileName); name != "" {
		builder.WriteString(fmt.Sprintf("File: %s\n\n", name))
	}
	builder.WriteString("SDS text:\n")
	builder.WriteString(text)

	content, err := c.performChatCompletion(ctx, c.chatPayload(opts, systemPrompt, builder.String()))
	if err != nil {
		return Profile{}, err
	}
	return decodeProfile("", content)
}
