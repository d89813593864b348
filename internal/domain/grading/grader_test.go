package grading

import (
	"testing"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

func TestIsCorrectMultipleChoice(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		correct  string
		user     string
		expected bool
	}{
		{"exact match", "B", "B", true},
		{"case and whitespace are ignored", "Paris", "  paris ", true},
		{"near miss is wrong", "Paris", "Pariss", false},
		{"empty answer is wrong", "B", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := domain.QuizItem{
				CorrectAnswer: tc.correct,
				AnswerType:    domain.AnswerTypeMultipleChoice,
				UserAnswer:    tc.user,
			}
			if got := IsCorrect(item); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestIsCorrectFreeText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		correct  string
		user     string
		expected bool
	}{
		{"exact match", "mitochondria", "mitochondria", true},
		{"case and whitespace are ignored", "Mitochondria", " mitochondria  ", true},
		{"articles are stripped", "the cell", "cell", true},
		{"punctuation is stripped", "photosynthesis.", "photosynthesis", true},
		{"articles and punctuation together", "The Krebs cycle.", "krebs cycle", true},
		{"answer contained in expected", "theory of general relativity", "general relativity", true},
		{"expected contained in answer", "relativity", "general relativity", true},
		{"two-character typo passes", "mitochondria", "mitochondira", true},
		{"three-character typo fails", "mitochondria", "mytachondrea", false},
		{"unrelated answer fails", "mitochondria", "ribosome", false},
		{"empty answer fails", "mitochondria", "", false},
		{"answer of only articles fails", "mitochondria", "the a an", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := domain.QuizItem{
				CorrectAnswer: tc.correct,
				AnswerType:    domain.AnswerTypeFreeText,
				UserAnswer:    tc.user,
			}
			if got := IsCorrect(item); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestStripPunctuationAndArticles(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text unchanged", "krebs cycle", "krebs cycle"},
		{"leading article dropped", "the krebs cycle", "krebs cycle"},
		{"punctuation dropped", "krebs cycle.", "krebs cycle"},
		{"article inside a word survives", "theory", "theory"},
		{"whitespace collapses", "a  big   answer", "big answer"},
		{"only articles leaves nothing", "a an the", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripPunctuationAndArticles(tc.input); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
