// Package extract turns a free-text job description into a structured draft
// via a generative-AI endpoint. Failures of any kind degrade to a fallback
// draft so the posting flow is always completable.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"worklink-api/models"
)

// Analysis is the structured draft extracted from a prompt.
type Analysis struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Budget       *float64            `json:"budget"`
	Category     models.TaskCategory `json:"category"`
	Date         string              `json:"date,omitempty"`
	LocationText string              `json:"location_text,omitempty"`
	Skills       []string            `json:"skills,omitempty"`
}

// Analyzer is the extraction collaborator boundary.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) Analysis
}

// Client calls a Gemini-style generateContent endpoint. A zero API key makes
// every call fall back immediately, which keeps local development keyless.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

const promptTemplate = `You are an assistant for a gig marketplace app.
Extract structured task data from the user's raw description.

User Description: %q

Return a JSON object STRICTLY matching this schema:
{
  "title": string,
  "description": string,
  "budget": number,
  "category": "Cleaning" | "Shifting" | "Helper" | "Repair" | "Delivery" | "Other",
  "date": string,
  "location_text": string,
  "skills": string[]
}`

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Analyze extracts a draft from the prompt. It never returns an error:
// transport failures, malformed JSON and unknown categories all produce
// the fallback record.
func (c *Client) Analyze(ctx context.Context, prompt string) Analysis {
	if c.APIKey == "" {
		return Fallback(prompt)
	}

	reqBody := generateRequest{Contents: []generateContent{
		{Parts: []generatePart{{Text: fmt.Sprintf(promptTemplate, prompt)}}},
	}}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Fallback(prompt)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Fallback(prompt)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Fallback(prompt)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Fallback(prompt)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return Fallback(prompt)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return Fallback(prompt)
	}

	return Parse(gen.Candidates[0].Content.Parts[0].Text, prompt)
}

// Parse decodes the model's JSON answer, tolerating markdown fences and
// stray text around the object. Anything unusable becomes the fallback.
func Parse(text, prompt string) Analysis {
	var a Analysis
	if err := json.Unmarshal([]byte(CleanJSON(text)), &a); err != nil {
		return Fallback(prompt)
	}
	if a.Title == "" {
		return Fallback(prompt)
	}
	a.Category = NormalizeCategory(string(a.Category))
	if a.Description == "" {
		a.Description = prompt
	}
	return a
}

// CleanJSON strips markdown code fences and trims to the outermost braces.
func CleanJSON(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last > first {
		cleaned = cleaned[first : last+1]
	}
	return cleaned
}

// NormalizeCategory maps free-form category text onto the fixed enum,
// defaulting to Other.
func NormalizeCategory(raw string) models.TaskCategory {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cleaning":
		return models.CategoryCleaning
	case "shifting":
		return models.CategoryShifting
	case "helper":
		return models.CategoryHelper
	case "repair":
		return models.CategoryRepair
	case "delivery":
		return models.CategoryDelivery
	}
	return models.CategoryOther
}

// Fallback is the well-defined degraded draft: truncated prompt as title,
// the prompt itself as description, no budget, category Other.
func Fallback(prompt string) Analysis {
	title := strings.TrimSpace(prompt)
	if runes := []rune(title); len(runes) > 40 {
		title = string(runes[:40]) + "..."
	}
	if title == "" {
		title = "New Request"
	}
	return Analysis{
		Title:       title,
		Description: prompt,
		Category:    models.CategoryOther,
	}
}
