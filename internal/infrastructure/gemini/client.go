package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DraftCount is how many listing drafts a single prompt asks for.
const DraftCount = 3

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.7)
	model.ResponseMIMEType = "application/json"

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// DraftPrompt describes the listing the drafts are written for.
type DraftPrompt struct {
	Role     domain.Role
	City     string
	Duration string
	Vibe     domain.Vibe
}

// GenerateListingDrafts asks the model for DraftCount title/description pairs.
func (c *GeminiClient) GenerateListingDrafts(ctx context.Context, p DraftPrompt) ([]domain.ListingDraft, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(p)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate drafts: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return ParseDrafts(sb.String())
}

func buildPrompt(p DraftPrompt) string {
	action := "offre ospitalità temporanea"
	if p.Role == domain.RoleSeeker {
		action = "cerca una sistemazione temporanea"
	}

	return fmt.Sprintf(`
		Scrivi %d proposte di annuncio per una piattaforma di convivenza temporanea.
		Chi scrive %s a %s per %s. Clima di casa desiderato: %s.
		Tono: rispettoso, concreto, senza promesse esagerate.
		Titolo: almeno 8 caratteri. Descrizione: 2-3 frasi, almeno 20 caratteri.
		Lingua: italiano.
		Output: array JSON di oggetti {"title": "...", "description": "..."}.
	`, DraftCount, action, p.City, p.Duration, p.Vibe)
}

// ParseDrafts decodes a model reply, tolerating markdown code fences.
// Drafts with an empty title or description are dropped.
func ParseDrafts(raw string) ([]domain.ListingDraft, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var drafts []domain.ListingDraft
	if err := json.Unmarshal([]byte(text), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse drafts: %w", err)
	}

	out := make([]domain.ListingDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Title = strings.TrimSpace(d.Title)
		d.Description = strings.TrimSpace(d.Description)
		if d.Title == "" || d.Description == "" {
			continue
		}
		out = append(out, d)
		if len(out) == DraftCount {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable drafts in response")
	}
	return out, nil
}
