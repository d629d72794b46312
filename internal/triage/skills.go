package triage

import "strings"

// skillAliases maps free-form tokens onto the fixed skill taxonomy used for
// moderator matching. Lookup keys are lowercase.
var skillAliases = map[string]string{
	"react":      "React",
	"reactjs":    "React",
	"node":       "Node.js",
	"nodejs":     "Node.js",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"mongodb":    "MongoDB",
	"mongo":      "MongoDB",
	"database":   "MongoDB",
	"python":     "Python",
	"java":       "Java",
	"docker":     "Docker",
	"aws":        "AWS",
	"security":   "Security",
	"mobile":     "Mobile",
	"ui":         "UI/UX",
	"ux":         "UI/UX",
	"design":     "UI/UX",
}

// skillNone is the sentinel the classifier emits when it found nothing
// actionable. It never survives normalization.
const skillNone = "general"

// NormalizeSkills maps raw classifier tokens onto the taxonomy. Unknown
// tokens pass through unchanged, the "general" sentinel is dropped, and the
// result is deduplicated preserving first-seen order.
func NormalizeSkills(raw []string) []string {
	normalized := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, token := range raw {
		key := strings.ToLower(strings.TrimSpace(token))
		if key == "" || key == skillNone {
			continue
		}
		skill := token
		if mapped, ok := skillAliases[key]; ok {
			skill = mapped
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		normalized = append(normalized, skill)
	}
	return normalized
}
