package textfilter

import (
	"testing"
)

func TestFilter_Clean(t *testing.T) {
	filter := NewFilter("PG13")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple replacement",
			input:    "What the hell is going on?",
			expected: "What the heck is going on?",
		},
		{
			name:     "multiple replacements",
			input:    "This is damn crap!",
			expected: "This is dang crud!",
		},
		{
			name:     "case preservation - uppercase",
			input:    "DAMN that's annoying!",
			expected: "DANG that's annoying!",
		},
		{
			name:     "case preservation - title case",
			input:    "Hell no, that's not right",
			expected: "Heck no, that's not right",
		},
		{
			name:     "case preservation - mixed case",
			input:    "HeLl yeah, that's DaMn good!",
			expected: "HeCk yeah, that's DaNg good!",
		},
		{
			name:     "word boundaries - partial matches untouched",
			input:    "I love classical music",
			expected: "I love classical music",
		},
		{
			name:     "word inside another word untouched",
			input:    "I need to process this data",
			expected: "I need to process this data",
		},
		{
			name:     "replacement with punctuation",
			input:    "What the hell?! That's damn crazy.",
			expected: "What the heck?! That's dang crazy.",
		},
		{
			name:     "no profanity",
			input:    "This is a perfectly clean sentence.",
			expected: "This is a perfectly clean sentence.",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.Clean(tt.input)
			if result != tt.expected {
				t.Errorf("Clean() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestFilter_MatureRatingPassesThrough(t *testing.T) {
	filter := NewFilter("R")
	if filter.Active() {
		t.Error("R-rated filter should be inactive")
	}

	input := "What the hell is this damn thing?"
	if got := filter.Clean(input); got != input {
		t.Errorf("Clean() = %q, want unchanged input", got)
	}
}

func TestFilter_Active(t *testing.T) {
	if !NewFilter("PG").Active() {
		t.Error("PG filter should be active")
	}
	if NewFilter("").Active() {
		t.Error("unrated filter should be inactive")
	}
}

func TestShouldFilterContent(t *testing.T) {
	tests := []struct {
		rating   string
		expected bool
	}{
		{"G", true},
		{"PG", true},
		{"PG13", true},
		{"PG-13", true},
		{"pg", true},
		{" PG13 ", true},
		{"R", false},
		{"NC-17", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			result := ShouldFilterContent(tt.rating)
			if result != tt.expected {
				t.Errorf("ShouldFilterContent(%q) = %v, want %v", tt.rating, result, tt.expected)
			}
		})
	}
}
