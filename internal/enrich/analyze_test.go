package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/pkg/anthropic"
	"github.com/sells-group/lead-cli/pkg/perplexity"
)

const analysisJSON = `{"ownerName": "Jane Doe", "industry": "Technology", "employeeCount": "10-50", "revenue": "$1M-$5M", "businessDetails": "Makes widgets.", "confidence": 85}`

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "Here you go:\n```json\n{\"a\": 1}\n```\nThanks", `{"a": 1}`},
		{"fence_without_lang", "```\n{\"a\": 2}\n```", `{"a": 2}`},
		{"prose", `I found {"a": {"b": 2}} in the records. {"c": 3}`, `{"a": {"b": 2}}`},
		{"brace_in_string", `{"a": "x } y"} trailing`, `{"a": "x } y"}`},
		{"escaped_quote", `{"a": "say \"}\" now"}`, `{"a": "say \"}\" now"}`},
		{"unbalanced", `{"a": 1`, ""},
		{"none", "no json here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	t.Parallel()

	a, err := ParseAnalysis("Sure!\n```json\n" + analysisJSON + "\n```")
	require.NoError(t, err)
	assert.Equal(t, &Analysis{
		OwnerName:       "Jane Doe",
		Industry:        "Technology",
		EmployeeCount:   "10-50",
		Revenue:         "$1M-$5M",
		BusinessDetails: "Makes widgets.",
		Confidence:      85,
	}, a)
}

func TestParseAnalysis_NestedIndustry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"primary_key", `{"industry": {"primary": "Legal", "secondary": "Other"}}`, "Legal"},
		{"naics_key", `{"industry": {"NAICS": "541110"}}`, "541110"},
		{"stringified", `{"industry": {"sector": "Food"}}`, `{"sector":"Food"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, err := ParseAnalysis(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Industry)
		})
	}
}

func TestParseAnalysis_Lenient(t *testing.T) {
	t.Parallel()

	a, err := ParseAnalysis(`{"ownerName": " Jane Doe ", "employeeCount": 25, "confidence": 140}`)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", a.OwnerName)
	assert.Equal(t, "25", a.EmployeeCount)
	assert.Equal(t, 100, a.Confidence)
}

func TestParseAnalysis_Failure(t *testing.T) {
	t.Parallel()

	_, err := ParseAnalysis("I could not find anything.")
	assert.Error(t, err)

	_, err = ParseAnalysis(`{"ownerName": }`)
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	p := BuildPrompt(model.Lead{CompanyName: "Acme", City: "Austin", Phone: "N/A", Website: "https://acme.io"})
	assert.Contains(t, p, "Company: Acme\n")
	assert.Contains(t, p, "City: Austin\n")
	assert.Contains(t, p, "Website: https://acme.io\n")
	assert.NotContains(t, p, "Phone:")
	assert.Contains(t, p, "owner's full name is the top priority")
	assert.Contains(t, p, "Beauty & Wellness")
}

func TestPrimaryAnalyzer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content any `json:"content"`
			} `json:"messages"`
			Tools []map[string]any `json:"tools"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-sonnet-4-5-20250929", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Len(t, body.Tools, 1)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-sonnet-4-5-20250929",
			"stop_reason": "end_turn",
			"content":     []map[string]any{{"type": "text", "text": "Result:\n" + analysisJSON}},
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	defer ts.Close()

	client := anthropic.NewClient("test-key", option.WithBaseURL(ts.URL), option.WithMaxRetries(0))
	a, err := NewPrimaryAnalyzer(client, "claude-sonnet-4-5-20250929", 0).Analyze(context.Background(), model.Lead{CompanyName: "Acme"})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", a.OwnerName)
	assert.Equal(t, 85, a.Confidence)
}

func TestSecondaryAnalyzer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var req perplexity.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "Company: Acme")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(perplexity.ChatCompletionResponse{ //nolint:errcheck
			Choices: []perplexity.Choice{{Message: perplexity.Message{Role: "assistant", Content: "```json\n" + analysisJSON + "\n```"}}},
		})
	}))
	defer ts.Close()

	client := perplexity.NewClient("test-key", perplexity.WithBaseURL(ts.URL))
	a, err := NewSecondaryAnalyzer(client).Analyze(context.Background(), model.Lead{CompanyName: "Acme"})

	require.NoError(t, err)
	assert.Equal(t, "Technology", a.Industry)
}

func TestSecondaryAnalyzer_UnparseableIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(perplexity.ChatCompletionResponse{ //nolint:errcheck
			Choices: []perplexity.Choice{{Message: perplexity.Message{Content: "No idea, sorry."}}},
		})
	}))
	defer ts.Close()

	client := perplexity.NewClient("test-key", perplexity.WithBaseURL(ts.URL))
	a, err := NewSecondaryAnalyzer(client).Analyze(context.Background(), model.Lead{CompanyName: "Acme"})

	assert.Error(t, err)
	assert.Nil(t, a)
}
