package triage

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// Classifier produces an AnalysisResult for a ticket. The primary path asks
// the external oracle; any failure there degrades to the deterministic
// rule-based fallback. Classify never fails.
type Classifier struct {
	oracle Oracle
	logger *zap.Logger
}

// NewClassifier creates a classifier. A nil oracle skips the external call
// entirely and classification runs on rules alone.
func NewClassifier(oracle Oracle, logger *zap.Logger) *Classifier {
	return &Classifier{oracle: oracle, logger: logger}
}

// Classify analyzes title and description, falling back to rules when the
// oracle is unavailable or returns an unusable response.
func (c *Classifier) Classify(ctx context.Context, title, description string) *AnalysisResult {
	if c.oracle != nil {
		result, err := c.oracle.Analyze(ctx, title, description)
		if err == nil && result != nil {
			return result
		}
		c.logger.Warn("classifier oracle failed; using rule-based fallback", zap.Error(err))
	}
	return ruleBasedAnalysis(title, description)
}

// ruleBasedAnalysis is the guaranteed terminal path of the classifier
// contract: keyword rules for priority and a small lexicon for skills.
func ruleBasedAnalysis(title, description string) *AnalysisResult {
	lowerTitle := strings.ToLower(title)
	lowerDesc := strings.ToLower(description)

	priority := domain.TicketPriorityMedium
	switch {
	case containsAny(lowerTitle, "critical", "down", "crash") ||
		containsAny(lowerDesc, "timeout", "error", "fail"):
		priority = domain.TicketPriorityHigh
	case containsAny(lowerTitle, "question", "how to"):
		priority = domain.TicketPriorityLow
	}

	skills := []string{"General"}
	switch {
	case containsAny(lowerTitle, "react") || containsAny(lowerDesc, "react"):
		skills = []string{"React", "JavaScript"}
	case containsAny(lowerTitle, "database") || containsAny(lowerDesc, "mongodb", "sql"):
		skills = []string{"MongoDB", "PostgreSQL"}
	case containsAny(lowerTitle, "node") || containsAny(lowerDesc, "node"):
		skills = []string{"Node.js", "JavaScript"}
	case containsAny(lowerTitle, "mobile") || containsAny(lowerDesc, "ios", "android"):
		skills = []string{"Mobile"}
	}

	return &AnalysisResult{
		Summary:       "Issue with " + title,
		Priority:      priority,
		HelpfulNotes:  "Please review the ticket details and investigate the reported issue.",
		RelatedSkills: skills,
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
