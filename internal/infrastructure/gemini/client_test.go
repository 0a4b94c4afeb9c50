package gemini

import (
	"testing"

	"github.com/gdugdh24/transitia-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDrafts(t *testing.T) {
	raw := "```json\n[" +
		`{"title": " Ospito a Milano ", "description": "Casa tranquilla, spese chiare."},` +
		`{"title": "", "description": "senza titolo"},` +
		`{"title": "Stanza per 1 mese", "description": "Regole semplici e rispetto."},` +
		`{"title": "Convivenza serena", "description": "Ritmi regolari."},` +
		`{"title": "Quarta proposta", "description": "Non serve."}` +
		"]\n```"

	drafts, err := ParseDrafts(raw)
	require.NoError(t, err)
	require.Len(t, drafts, DraftCount)
	assert.Equal(t, "Ospito a Milano", drafts[0].Title)
	assert.Equal(t, "Stanza per 1 mese", drafts[1].Title)
}

func TestParseDrafts_Invalid(t *testing.T) {
	_, err := ParseDrafts("non è JSON")
	assert.Error(t, err)

	_, err = ParseDrafts(`[{"title": "", "description": ""}]`)
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(DraftPrompt{Role: domain.RoleSeeker, City: "Napoli", Duration: domain.DurationOneMonth, Vibe: domain.VibeCalm})
	assert.Contains(t, prompt, "cerca una sistemazione temporanea a Napoli")
	assert.Contains(t, prompt, "1 mese")
}
