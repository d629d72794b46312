package triage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
)

func oracleAgainst(t *testing.T, handler http.HandlerFunc) (Oracle, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	oracle := NewGeminiOracle(config.ClassifierConfig{
		Endpoint:       server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 2,
	}, zap.NewNop())
	require.NotNil(t, oracle)
	return oracle, server
}

func candidateBody(text string) []byte {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return body
}

func TestGeminiOracleParsesProseWrappedJSON(t *testing.T) {
	oracle, _ := oracleAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "test-model")
		_, _ = w.Write(candidateBody("Sure, here is the analysis:\n" +
			`{"summary":"s","priority":"high","helpfulNotes":"n","relatedSkills":["React"]}` +
			"\nLet me know if you need more."))
	})

	got, err := oracle.Analyze(context.Background(), "title", "desc")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, got.Priority)
	assert.Equal(t, []string{"React"}, got.RelatedSkills)
}

func TestGeminiOracleErrorsOnHTTPFailure(t *testing.T) {
	oracle, _ := oracleAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := oracle.Analyze(context.Background(), "title", "desc")
	assert.Error(t, err)
}

func TestGeminiOracleErrorsOnEmptyCandidates(t *testing.T) {
	oracle, _ := oracleAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := oracle.Analyze(context.Background(), "title", "desc")
	assert.Error(t, err)
}

func TestGeminiOracleErrorsOnUnusableAnalysis(t *testing.T) {
	oracle, _ := oracleAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(candidateBody("I could not classify this ticket, sorry."))
	})

	_, err := oracle.Analyze(context.Background(), "title", "desc")
	assert.Error(t, err)
}

func TestNewGeminiOracleWithoutKeyIsNil(t *testing.T) {
	oracle := NewGeminiOracle(config.ClassifierConfig{}, zap.NewNop())
	assert.Nil(t, oracle)
}
