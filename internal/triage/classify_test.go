package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

func TestClassifyUsesOracleResult(t *testing.T) {
	want := &AnalysisResult{
		Summary:       "summary",
		Priority:      domain.TicketPriorityLow,
		HelpfulNotes:  "notes",
		RelatedSkills: []string{"React"},
	}
	classifier := NewClassifier(&fakeOracle{result: want}, zap.NewNop())

	got := classifier.Classify(context.Background(), "title", "desc")
	assert.Equal(t, want, got)
}

func TestClassifyFallsBackOnOracleError(t *testing.T) {
	classifier := NewClassifier(&fakeOracle{err: errors.New("boom")}, zap.NewNop())

	got := classifier.Classify(context.Background(), "Server crash", "stack trace attached")
	require.NotNil(t, got)
	assert.Equal(t, domain.TicketPriorityHigh, got.Priority)
}

func TestClassifyNilOracleRunsRulesOnly(t *testing.T) {
	classifier := NewClassifier(nil, zap.NewNop())

	got := classifier.Classify(context.Background(), "Question about billing", "how to change my plan")
	require.NotNil(t, got)
	assert.Equal(t, domain.TicketPriorityLow, got.Priority)
}

func TestRuleBasedAnalysisPriorityRules(t *testing.T) {
	cases := []struct {
		name        string
		title, desc string
		want        domain.TicketPriority
	}{
		{"critical in title", "Critical outage", "nothing loads", domain.TicketPriorityHigh},
		{"down in title", "Database down", "prod db timeout errors", domain.TicketPriorityHigh},
		{"error in description", "Weird page", "error 500 everywhere", domain.TicketPriorityHigh},
		{"question", "Question about exports", "fine otherwise", domain.TicketPriorityLow},
		{"how to", "How to reset password", "just curious", domain.TicketPriorityLow},
		{"default", "Feature request", "please add dark mode", domain.TicketPriorityMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ruleBasedAnalysis(tc.title, tc.desc)
			assert.Equal(t, tc.want, got.Priority)
		})
	}
}

func TestRuleBasedAnalysisSkillLexicon(t *testing.T) {
	assert.Equal(t, []string{"React", "JavaScript"}, ruleBasedAnalysis("React page blank", "").RelatedSkills)
	assert.Equal(t, []string{"MongoDB", "PostgreSQL"}, ruleBasedAnalysis("Database down", "prod db timeout errors").RelatedSkills)
	assert.Equal(t, []string{"Node.js", "JavaScript"}, ruleBasedAnalysis("x", "node service restarts").RelatedSkills)
	assert.Equal(t, []string{"Mobile"}, ruleBasedAnalysis("x", "crashes on android").RelatedSkills)
	assert.Equal(t, []string{"General"}, ruleBasedAnalysis("Printer on fire", "smoke everywhere").RelatedSkills)
}

func TestRuleBasedAnalysisNeverEmpty(t *testing.T) {
	got := ruleBasedAnalysis("", "")
	require.NotNil(t, got)
	assert.Equal(t, domain.TicketPriorityMedium, got.Priority)
	assert.NotEmpty(t, got.HelpfulNotes)
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"prose wrapped", "Sure! Here you go:\n```json\n{\"a\":1}\n```\nHope that helps.", `{"a":1}`, true},
		{"nested objects", `noise {"a":{"b":2}} trailing {"c":3}`, `{"a":{"b":2}}`, true},
		{"braces inside strings", `{"note":"use {curly} braces"}`, `{"note":"use {curly} braces"}`, true},
		{"escaped quotes", `{"note":"she said \"hi\" {"}`, `{"note":"she said \"hi\" {"}`, true},
		{"no object", "no json here", "", false},
		{"unbalanced", `{"a":1`, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractJSONObject(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeAnalysisValid(t *testing.T) {
	text := `Here is the analysis:
{"summary":"db is sad","priority":"high","helpfulNotes":"restart it","relatedSkills":["mongo","PostgreSQL"]}`
	got, err := decodeAnalysis(text)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, got.Priority)
	assert.Equal(t, "restart it", got.HelpfulNotes)
	assert.Equal(t, []string{"mongo", "PostgreSQL"}, got.RelatedSkills)
}

func TestDecodeAnalysisFiltersNonStringSkills(t *testing.T) {
	got, err := decodeAnalysis(`{"priority":"low","relatedSkills":["React",42,null,"AWS"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "AWS"}, got.RelatedSkills)
}

func TestDecodeAnalysisRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"missing priority", `{"relatedSkills":["React"]}`},
		{"missing skills", `{"priority":"high"}`},
		{"unknown priority", `{"priority":"urgent","relatedSkills":[]}`},
		{"skills not an array", `{"priority":"high","relatedSkills":"React"}`},
		{"not json", "plain prose"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeAnalysis(tc.in)
			assert.Error(t, err)
		})
	}
}
