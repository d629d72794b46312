package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
)

const analysisPrompt = `Analyze this support ticket and return ONLY valid JSON:

Title: %q
Description: %q

Return JSON format:
{
  "summary": "brief summary",
  "priority": "low|medium|high",
  "helpfulNotes": "solution guidance",
  "relatedSkills": ["skill1", "skill2"]
}

Rules:
- If it's a critical system issue, database problem, or security issue: priority = "high"
- If it's a bug or feature request: priority = "medium"
- If it's a question or minor issue: priority = "low"
- Skills should match: React, Node.js, JavaScript, Python, MongoDB, PostgreSQL, AWS, Docker, UI/UX, Mobile, DevOps, Security, Java, PHP, Vue.js, Angular, TypeScript, Redis, Kubernetes

Return ONLY the JSON object, no other text:`

// geminiOracle calls a generateContent-style text-analysis endpoint.
type geminiOracle struct {
	cfg    config.ClassifierConfig
	client *http.Client
	logger *zap.Logger
}

// NewGeminiOracle builds the HTTP oracle. Returns nil when no API key is
// configured so the classifier degrades to rules.
func NewGeminiOracle(cfg config.ClassifierConfig, logger *zap.Logger) Oracle {
	if cfg.APIKey == "" {
		logger.Warn("CLASSIFIER_API_KEY not provided; classification runs on rules only")
		return nil
	}
	return &geminiOracle{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Analyze asks the remote model for a structured analysis. The model tends
// to wrap its JSON in prose; the first balanced object span is extracted and
// strictly decoded before anything is trusted.
func (o *geminiOracle) Analyze(ctx context.Context, title, description string) (*AnalysisResult, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: fmt.Sprintf(analysisPrompt, title, description)}},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", o.cfg.Endpoint, o.cfg.Model, o.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier call: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("decode response: no candidates")
	}

	return decodeAnalysis(decoded.Candidates[0].Content.Parts[0].Text)
}

// decodeAnalysis extracts the first balanced JSON object from text and
// validates it into an AnalysisResult. Missing or mistyped fields are an
// error; the caller's fallback path handles them the same as a failed call.
func decodeAnalysis(text string) (*AnalysisResult, error) {
	span, ok := extractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var raw struct {
		Summary       *string `json:"summary"`
		Priority      *string `json:"priority"`
		HelpfulNotes  *string `json:"helpfulNotes"`
		RelatedSkills *[]any  `json:"relatedSkills"`
	}
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	if raw.Priority == nil || raw.RelatedSkills == nil {
		return nil, fmt.Errorf("parse analysis: missing fields")
	}
	priority := domain.TicketPriority(*raw.Priority)
	if !domain.ValidPriority(priority) {
		return nil, fmt.Errorf("parse analysis: unknown priority %q", *raw.Priority)
	}

	result := &AnalysisResult{Priority: priority}
	if raw.Summary != nil {
		result.Summary = *raw.Summary
	}
	if raw.HelpfulNotes != nil {
		result.HelpfulNotes = *raw.HelpfulNotes
	}
	for _, entry := range *raw.RelatedSkills {
		if skill, ok := entry.(string); ok {
			result.RelatedSkills = append(result.RelatedSkills, skill)
		}
	}
	return result, nil
}

// extractJSONObject returns the first balanced {...} span in text, tracking
// string literals so braces inside values do not end the span early.
func extractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false
	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
