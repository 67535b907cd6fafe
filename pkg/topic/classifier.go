// Package topic classifies chat messages against the assistant's two
// specializations: Chelsea FC and frontend development.
package topic

import "strings"

const (
	Chelsea   = "chelsea"
	Frontend  = "frontend"
	Mixed     = "mixed"
	General   = "general"
	Assistant = "assistant"
)

// Narrow term lists used to label individual user messages.
var (
	chelseaLabelTerms = []string{
		"chelsea", "premier league", "stamford bridge", "pochettino",
	}
	frontendLabelTerms = []string{
		"react", "javascript", "tailwind", "css", "html", "gsap",
	}
)

// Broader term lists used to decide whether a question is answerable at all.
// Deliberately looser than the label lists so borderline questions still get
// a real answer.
var (
	chelseaScopeTerms = append([]string{
		"player", "match", "transfer", "goal", "league", "football",
		"soccer", "blues", "cfc", "mauricio", "enzo", "palmer", "caicedo",
	}, chelseaLabelTerms...)
	frontendScopeTerms = append([]string{
		"frontend", "web development", "programming", "code",
		"component", "hook", "state", "props", "animation", "style",
	}, frontendLabelTerms...)
)

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Classify labels a single user message. Matching is case-insensitive
// substring search; both lists matching yields Mixed, neither General.
func Classify(content string) string {
	lower := strings.ToLower(content)

	hasChelsea := containsAny(lower, chelseaLabelTerms)
	hasFrontend := containsAny(lower, frontendLabelTerms)

	switch {
	case hasChelsea && hasFrontend:
		return Mixed
	case hasChelsea:
		return Chelsea
	case hasFrontend:
		return Frontend
	default:
		return General
	}
}

// InScope reports which specializations a question touches using the broad
// lists. Both false means the assistant declines to answer.
func InScope(content string) (chelsea, frontend bool) {
	lower := strings.ToLower(content)
	return containsAny(lower, chelseaScopeTerms), containsAny(lower, frontendScopeTerms)
}
