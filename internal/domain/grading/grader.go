// Package grading implements quiz answer grading: exact matching for
// multiple-choice questions, a typo-tolerant fuzzy ladder for free text,
// and aggregation of a full attempt into a score with per-topic breakdown.
package grading

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// maxEditDistance is the largest Levenshtein distance still accepted as a
// typo rather than a wrong answer.
const maxEditDistance = 2

var levenshteinParams = levenshtein.NewParams()

// punctuationReplacer drops the punctuation characters that answer
// normalization ignores.
var punctuationReplacer = strings.NewReplacer(
	".", "",
	",", "",
	"!", "",
	"?", "",
	";", "",
	":", "",
)

// normalize lowercases and trims an answer for comparison.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// stripPunctuationAndArticles removes the ignorable punctuation characters
// and English articles (a, an, the) as whole words, collapsing the
// remaining whitespace. Input is expected to be normalized already.
func stripPunctuationAndArticles(s string) string {
	s = punctuationReplacer.Replace(s)

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		switch w {
		case "a", "an", "the":
			continue
		default:
			kept = append(kept, w)
		}
	}

	return strings.Join(kept, " ")
}

// IsCorrect grades a single quiz item.
//
// Multiple-choice answers must match exactly after normalization. Free-text
// answers walk a fuzzy ladder, short-circuiting on the first match:
// exact equality, equality after stripping punctuation and articles,
// substring containment in either direction, and finally an edit distance
// of at most two between the stripped forms. There is no partial credit.
func IsCorrect(item domain.QuizItem) bool {
	user := normalize(item.UserAnswer)
	correct := normalize(item.CorrectAnswer)

	if item.AnswerType == domain.AnswerTypeMultipleChoice {
		return user == correct
	}

	if user == correct {
		return true
	}

	strippedUser := stripPunctuationAndArticles(user)
	strippedCorrect := stripPunctuationAndArticles(correct)
	if strippedUser == strippedCorrect && strippedUser != "" {
		return true
	}

	// Containment on the normalized forms; an empty answer matches
	// everything as a substring, so it never gets this far.
	if user != "" && correct != "" &&
		(strings.Contains(user, correct) || strings.Contains(correct, user)) {
		return true
	}

	if strippedUser == "" || strippedCorrect == "" {
		return false
	}

	return levenshtein.Distance(strippedUser, strippedCorrect, levenshteinParams) <= maxEditDistance
}
