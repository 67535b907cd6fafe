package topic

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "chelsea term",
			content: "How did Chelsea do at Stamford Bridge?",
			want:    Chelsea,
		},
		{
			name:    "frontend term",
			content: "How do I center a div with Tailwind?",
			want:    Frontend,
		},
		{
			name:    "both topics",
			content: "Build a React page showing Chelsea fixtures",
			want:    Mixed,
		},
		{
			name:    "neither topic",
			content: "What is the weather today?",
			want:    General,
		},
		{
			name:    "case insensitive",
			content: "POCHETTINO press conference",
			want:    Chelsea,
		},
		{
			name:    "substring inside word",
			content: "I love javascripting",
			want:    Frontend,
		},
		{
			name:    "broad-only term not labeled",
			content: "Who scored the winning goal?",
			want:    General,
		},
		{
			name:    "player name outside the label list",
			content: "Tell me about Enzo Fernández",
			want:    General,
		},
		{
			name:    "empty",
			content: "",
			want:    General,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.content); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestInScope(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantChelsea  bool
		wantFrontend bool
	}{
		{
			name:        "broad football term",
			content:     "Who scored the winning goal?",
			wantChelsea: true,
		},
		{
			name:         "broad programming term",
			content:      "Review my code please",
			wantFrontend: true,
		},
		{
			name:         "both scopes",
			content:      "Animate the Chelsea crest with GSAP",
			wantChelsea:  true,
			wantFrontend: true,
		},
		{
			name:    "out of scope",
			content: "Tell me a joke about cats",
		},
		{
			name:        "player nickname",
			content:     "Are the blues playing tonight?",
			wantChelsea: true,
		},
		{
			name:        "player first name answerable but unlabeled",
			content:     "Tell me about Enzo Fernández",
			wantChelsea: true,
		},
		{
			name:        "player surname answerable but unlabeled",
			content:     "Who is Palmer?",
			wantChelsea: true,
		},
		{
			name:         "state keyword",
			content:      "How should I manage state?",
			wantFrontend: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotChelsea, gotFrontend := InScope(tt.content)
			if gotChelsea != tt.wantChelsea || gotFrontend != tt.wantFrontend {
				t.Errorf("InScope(%q) = (%v, %v), want (%v, %v)",
					tt.content, gotChelsea, gotFrontend, tt.wantChelsea, tt.wantFrontend)
			}
		})
	}
}
