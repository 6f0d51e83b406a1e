package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/pkg/anthropic"
	"github.com/sells-group/lead-cli/pkg/perplexity"
)

// IndustryLabels is the fixed label set analyzers must choose from.
var IndustryLabels = []string{
	"Restaurant", "Retail", "Healthcare", "Legal", "Real Estate",
	"Food & Beverage", "Fitness", "Beauty & Wellness", "Construction",
	"Professional Services", "Technology", "Manufacturing", "Automotive",
	"Education", "Financial Services", "Home Services", "Other",
}

// Analysis is an AI analyzer's best guess about a lead.
type Analysis struct {
	OwnerName       string `json:"ownerName"`
	Industry        string `json:"industry"`
	EmployeeCount   string `json:"employeeCount"`
	Revenue         string `json:"revenue"`
	BusinessDetails string `json:"businessDetails"`
	Confidence      int    `json:"confidence"`
}

// Value returns the analysis value for a mergeable field, or "" when the
// analysis does not cover it.
func (a *Analysis) Value(f model.Field) string {
	if a == nil {
		return ""
	}
	switch f {
	case model.FieldOwnerName:
		return a.OwnerName
	case model.FieldIndustry:
		return a.Industry
	case model.FieldEmployeeCount:
		return a.EmployeeCount
	case model.FieldRevenue:
		return a.Revenue
	case model.FieldBusinessDetails:
		return a.BusinessDetails
	}
	return ""
}

// Analyzer produces an Analysis for a lead.
type Analyzer interface {
	Analyze(ctx context.Context, lead model.Lead) (*Analysis, error)
}

const systemPrompt = `You research small and mid-sized businesses for a sales team.
Your most important task is to find the full name of the business owner or founder.
Search the web when you can. Answer with a single JSON object and nothing else.`

// BuildPrompt renders the analysis request for a lead.
func BuildPrompt(l model.Lead) string {
	var b strings.Builder
	b.WriteString("Research this business and identify its owner or founder.\n\n")
	for _, kv := range [][2]string{
		{"Company", l.CompanyName},
		{"Address", l.Address},
		{"City", l.City},
		{"State", l.State},
		{"Country", l.Country},
		{"Phone", l.Phone},
		{"Website", l.Website},
		{"Industry", l.Industry},
		{"Known owner", l.OwnerName},
	} {
		if model.HasValue(kv[1]) {
			fmt.Fprintf(&b, "%s: %s\n", kv[0], strings.TrimSpace(kv[1]))
		}
	}
	b.WriteString("\nFinding the owner's full name is the top priority. Then estimate the rest.\n")
	fmt.Fprintf(&b, "industry must be one of: %s.\n", strings.Join(IndustryLabels, ", "))
	b.WriteString(`Return exactly this JSON shape:
{"ownerName": "full name or N/A", "industry": "label", "employeeCount": "range such as 10-50",
 "revenue": "range such as $1M-$5M", "businessDetails": "two or three sentences", "confidence": 0-100}`)
	return b.String()
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON returns the first JSON object in text: a fenced code block if
// present, else the first balanced brace span. It returns "" when none is
// found.
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	depth, inString, escaped := 0, false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// ParseAnalysis decodes a model response into an Analysis. A nested
// industry object is collapsed to a string.
func ParseAnalysis(text string) (*Analysis, error) {
	raw := ExtractJSON(text)
	if raw == "" {
		return nil, eris.New("enrich: no JSON object in analysis response")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, eris.Wrap(err, "enrich: decode analysis")
	}

	a := &Analysis{
		OwnerName:       stringField(doc["ownerName"]),
		Industry:        industryField(doc["industry"]),
		EmployeeCount:   stringField(doc["employeeCount"]),
		Revenue:         stringField(doc["revenue"]),
		BusinessDetails: stringField(doc["businessDetails"]),
	}
	if c, ok := doc["confidence"]; ok {
		var f float64
		if err := json.Unmarshal(c, &f); err == nil {
			a.Confidence = clamp(int(f), 0, 100)
		}
	}
	return a, nil
}

// stringField decodes a JSON string, or renders a number, as a string.
func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// industryField accepts a string or an object. Objects yield their primary
// or NAICS entry, else their compact JSON.
func industryField(raw json.RawMessage) string {
	if s := stringField(raw); s != "" {
		return s
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, k := range []string{"primary", "Primary", "naics", "NAICS", "name", "label"} {
		if s := stringField(obj[k]); s != "" {
			return s
		}
	}
	compact, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return string(compact)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PrimaryAnalyzer analyzes leads with Claude and its web search tool.
type PrimaryAnalyzer struct {
	client        anthropic.Client
	model         string
	maxTokens     int64
	webSearchUses int64
}

// NewPrimaryAnalyzer creates a PrimaryAnalyzer.
func NewPrimaryAnalyzer(client anthropic.Client, model string, maxTokens int) *PrimaryAnalyzer {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &PrimaryAnalyzer{client: client, model: model, maxTokens: int64(maxTokens), webSearchUses: 5}
}

// Analyze implements Analyzer.
func (p *PrimaryAnalyzer) Analyze(ctx context.Context, lead model.Lead) (*Analysis, error) {
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:            p.model,
		MaxTokens:        p.maxTokens,
		System:           anthropic.CachedSystem(systemPrompt),
		Messages:         []anthropic.Message{{Role: "user", Content: BuildPrompt(lead)}},
		WebSearchMaxUses: p.webSearchUses,
	})
	if err != nil {
		return nil, eris.Wrap(err, "enrich: primary analysis")
	}
	resp.Usage.LogCost(p.model, lead.CompanyName)
	return ParseAnalysis(resp.Text())
}

// SecondaryAnalyzer analyzes leads with Perplexity's web-grounded chat.
type SecondaryAnalyzer struct {
	client perplexity.Client
}

// NewSecondaryAnalyzer creates a SecondaryAnalyzer.
func NewSecondaryAnalyzer(client perplexity.Client) *SecondaryAnalyzer {
	return &SecondaryAnalyzer{client: client}
}

// Analyze implements Analyzer.
func (s *SecondaryAnalyzer) Analyze(ctx context.Context, lead model.Lead) (*Analysis, error) {
	resp, err := s.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(lead)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "enrich: secondary analysis")
	}
	return ParseAnalysis(resp.Text())
}
