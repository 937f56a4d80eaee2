package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklink-api/models"
)

func TestFallbackShape(t *testing.T) {
	prompt := "need someone to help me move a heavy wardrobe down three flights of stairs"
	a := Fallback(prompt)

	assert.Equal(t, "need someone to help me move a heavy war...", a.Title)
	assert.Equal(t, prompt, a.Description)
	assert.Equal(t, models.CategoryOther, a.Category)
	assert.Nil(t, a.Budget)
}

func TestFallbackShortAndEmptyPrompts(t *testing.T) {
	a := Fallback("fix my sink")
	assert.Equal(t, "fix my sink", a.Title)

	assert.Equal(t, "New Request", Fallback("").Title)
}

func TestFallbackTruncatesOnRuneBoundaries(t *testing.T) {
	// multi-byte prompts must never be cut mid-rune
	prompt := strings.Repeat("सफाई", 20)
	a := Fallback(prompt)

	assert.True(t, utf8.ValidString(a.Title))
	assert.Equal(t, strings.Repeat("सफाई", 10)+"...", a.Title)
}

func TestCleanJSONStripsFencesAndNoise(t *testing.T) {
	raw := "Here you go:\n```json\n{\"title\":\"Clean flat\"}\n```\nHope that helps!"
	assert.Equal(t, `{"title":"Clean flat"}`, CleanJSON(raw))

	assert.Equal(t, `{"a":1}`, CleanJSON(`{"a":1}`))
}

func TestParseWellFormed(t *testing.T) {
	budgetJSON := `{"title":"Move sofa","description":"Two-seater, one flight","budget":60,"category":"Shifting","skills":["Lifting"]}`
	a := Parse(budgetJSON, "move my sofa")

	assert.Equal(t, "Move sofa", a.Title)
	assert.Equal(t, models.CategoryShifting, a.Category)
	require.NotNil(t, a.Budget)
	assert.Equal(t, 60.0, *a.Budget)
	assert.Equal(t, []string{"Lifting"}, a.Skills)
}

func TestParseUnknownCategoryDefaultsToOther(t *testing.T) {
	a := Parse(`{"title":"Walk my dog","category":"Petcare"}`, "walk my dog")
	assert.Equal(t, models.CategoryOther, a.Category)
}

func TestParseGarbageFallsBack(t *testing.T) {
	a := Parse("the model had a bad day", "paint my fence")
	assert.Equal(t, "paint my fence", a.Title)
	assert.Equal(t, models.CategoryOther, a.Category)
}

func TestAnalyzeWithoutKeyFallsBack(t *testing.T) {
	c := NewClient("http://unused", "", "test-model")
	a := c.Analyze(context.Background(), "mow the lawn")
	assert.Equal(t, "mow the lawn", a.Title)
}

func TestAnalyzeParsesEndpointResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":
			"{\"title\":\"Mow the lawn\",\"description\":\"Front and back\",\"budget\":25,\"category\":\"Helper\"}"
		}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model")
	a := c.Analyze(context.Background(), "mow the lawn please")

	assert.Equal(t, "Mow the lawn", a.Title)
	assert.Equal(t, models.CategoryHelper, a.Category)
	require.NotNil(t, a.Budget)
	assert.Equal(t, 25.0, *a.Budget)
}

func TestAnalyzeServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "test-model")
	a := c.Analyze(context.Background(), "mow the lawn")
	assert.Equal(t, "mow the lawn", a.Title)
	assert.Equal(t, models.CategoryOther, a.Category)
}
