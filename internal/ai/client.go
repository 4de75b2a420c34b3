package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"labstock/internal/inventory"
)

const (
	defaultModel       = "gpt-4.1-mini"
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultTemperature = 0.2
	defaultTimeout     = 60 * time.Second
)

var (
	// ErrQuotaExceeded is returned when the provider rejects a call with 429.
	ErrQuotaExceeded = errors.New("ai: request quota exceeded")
	// ErrMalformedResponse is returned when the model answer cannot be parsed.
	ErrMalformedResponse = errors.New("ai: malformed response")
)

// Config describes how the OpenAI client should be initialised.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client offers a thin wrapper around the OpenAI Chat Completions API.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client
}

// FetchOptions control per-request overrides.
type FetchOptions struct {
	ModelOverride string
}

// Profile is the normalised chemical data suggested by the model. Every field
// is a suggestion the user may override.
type Profile struct {
	Name      string                  `json:"name"`
	Formula   string                  `json:"formula"`
	CASNumber string                  `json:"casNumber"`
	Category  string                  `json:"category"`
	State     inventory.PhysicalState `json:"state"`
	NFPA      inventory.NFPARating    `json:"nfpa"`
	HazardGHS []string                `json:"hazardGHS,omitempty"`
}

// Chemical copies the profile onto a new master record.
func (p Profile) Chemical() inventory.Chemical {
	return inventory.Chemical{
		Name:      p.Name,
		Formula:   p.Formula,
		CASNumber: p.CASNumber,
		Category:  p.Category,
		State:     p.State,
		NFPA:      p.NFPA,
		HazardGHS: append([]string(nil), p.HazardGHS...),
		Lots:      []inventory.Lot{},
	}
}

// NewClient builds a Client that can query OpenAI for chemical data.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ai: api key must not be empty")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	temp := cfg.Temperature
	if temp <= 0 {
		temp = defaultTemperature
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	return &Client{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temp,
		httpClient:  httpClient,
	}, nil
}

// FetchChemicalProfile asks the model for the identity and hazard data of a
// chemical given its free-text name.
func (c *Client) FetchChemicalProfile(ctx context.Context, name string, opts FetchOptions) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, errors.New("ai: chemical name must not be empty")
	}

	content, err := c.performChatCompletion(ctx, c.chatPayload(opts,
		"You are a laboratory chemical safety officer. Provide compact, fact-checked reagent data in JSON only.",
		buildLookupPrompt(name),
	))
	if err != nil {
		return Profile{}, err
	}
	return decodeProfile(name, content)
}

// SafetyAdvice returns a short handling, storage and first-aid summary.
func (c *Client) SafetyAdvice(ctx context.Context, name, formula string, opts FetchOptions) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("ai: chemical name must not be empty")
	}
	subject := name
	if f := strings.TrimSpace(formula); f != "" {
		subject = fmt.Sprintf("%s (%s)", name, f)
	}

	content, err := c.performChatCompletion(ctx, c.chatPayload(opts,
		"You are a laboratory chemical safety officer. Answer in plain text with short bullet points.",
		fmt.Sprintf("Give concise safety guidance for %s: required PPE, storage conditions and incompatibilities, spill response and first aid. At most 12 bullet points.", subject),
	))
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", ErrMalformedResponse
	}
	return content, nil
}

func (c *Client) chatPayload(opts FetchOptions, system, user string) map[string]any {
	return map[string]any{
		"model":       c.effectiveModel(opts),
		"temperature": c.temperature,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
}

func (c *Client) effectiveModel(opts FetchOptions) string {
	model := strings.TrimSpace(opts.ModelOverride)
	if model != "" {
		return model
	}
	return c.model
}

func buildLookupPrompt(name string) string {
	return fmt.Sprintf(`Return JSON describing the laboratory chemical "%s". Fields:
{
  "name": string (common English name),
  "formula": string (molecular formula),
  "cas_number": string | "",
  "category": string from {%s},
  "state": string from {SOLID, LIQUID, GAS} at room temperature,
  "nfpa_health": integer 0-4,
  "nfpa_flammability": integer 0-4,
  "nfpa_instability": integer 0-4,
  "nfpa_special": string | "" (OX, W, COR, ...),
  "ghs_pictograms": string[] (codes like GHS02)
}
Strict rules: respond with raw JSON, no Markdown, no comments. Use empty string instead of unknown text fields.`, name, strings.Join(inventory.Categories, ", "))
}

type aiChemicalResponse struct {
	Name             string `json:"name"`
	Formula          string `json:"formula"`
	CASNumber        string `json:"cas_number"`
	Category         string `json:"category"`
	State            string `json:"state"`
	NFPAHealth       any    `json:"nfpa_health"`
	NFPAFlammability any    `json:"nfpa_flammability"`
	NFPAInstability  any    `json:"nfpa_instability"`
	NFPASpecial      string `json:"nfpa_special"`
	GHSPictograms    any    `json:"ghs_pictograms"`
}

func decodeProfile(requestedName, content string) (Profile, error) {
	var parsed aiChemicalResponse
	decoder := json.NewDecoder(strings.NewReader(stripCodeFence(content)))
	decoder.UseNumber()
	if err := decoder.Decode(&parsed); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return normaliseChemicalData(requestedName, parsed)
}

func normaliseChemicalData(requestedName string, aiData aiChemicalResponse) (Profile, error) {
	name := normaliseText(aiData.Name)
	if name == "" {
		name = normaliseText(requestedName)
	}
	if name == "" {
		return Profile{}, fmt.Errorf("%w: chemical name missing", ErrMalformedResponse)
	}

	state, ok := inventory.ParsePhysicalState(aiData.State)
	if !ok {
		state = inventory.StateLiquid
	}

	nfpa := inventory.NFPARating{
		Health:       int(parseNumeric(aiData.NFPAHealth)),
		Flammability: int(parseNumeric(aiData.NFPAFlammability)),
		Instability:  int(parseNumeric(aiData.NFPAInstability)),
		Special:      normaliseValue(aiData.NFPASpecial),
	}

	return Profile{
		Name:      name,
		Formula:   normaliseValue(aiData.Formula),
		CASNumber: normaliseValue(aiData.CASNumber),
		Category:  inventory.NormalizeCategory(aiData.Category),
		State:     state,
		NFPA:      nfpa.Clamp(),
		HazardGHS: sanitisePictograms(aiData.GHSPictograms),
	}, nil
}

func normaliseValue(value string) string {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "n/a", "na", "none", "unknown":
		return ""
	default:
		return value
	}
}

func normaliseText(value string) string {
	value = normaliseValue(value)
	if value == "" {
		return ""
	}
	return strings.Join(strings.Fields(value), " ")
}

func parseNumeric(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case json.Number:
		parsed, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0
		}
		return parsed
	case string:
		return parseFirstNumber(v)
	default:
		return 0
	}
}

func parseFirstNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	match := numberPattern.FindString(value)
	if match == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return parsed
}

var (
	numberPattern    = regexp.MustCompile(`[-+]?\d*\.?\d+`)
	pictogramPattern = regexp.MustCompile(`(?i)GHS0?([1-9])`)
)

func sanitisePictograms(raw any) []string {
	var candidates []string
	switch values := raw.(type) {
	case []any:
		for _, entry := range values {
			if s, ok := entry.(string); ok {
				candidates = append(candidates, s)
			}
		}
	case string:
		candidates = strings.Split(values, ",")
	}

	seen := make(map[string]struct{})
	var result []string
	for _, candidate := range candidates {
		match := pictogramPattern.FindStringSubmatch(candidate)
		if match == nil {
			continue
		}
		code := "GHS0" + match[1]
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		result = append(result, code)
	}
	return result
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "json")
	if start := strings.Index(content, "{"); start > 0 {
		content = content[start:]
	}
	if end := strings.LastIndex(content, "}"); end >= 0 && end < len(content)-1 {
		content = content[:end+1]
	}
	return strings.TrimSpace(content)
}

func (c *Client) performChatCompletion(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ai: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: call openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return "", ErrQuotaExceeded
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("ai: openai returned status %s", resp.Status)
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&responseData); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrMalformedResponse, err)
	}

	if len(responseData.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", ErrMalformedResponse)
	}

	content := strings.TrimSpace(responseData.Choices[0].Message.Content)
	content = strings.Trim(content, "`")
	return strings.TrimSpace(content), nil
}
