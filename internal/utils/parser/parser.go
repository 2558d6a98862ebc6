// Package parser turns free-text generative-model output into a clean list
// of interview questions. Each strategy is independently callable; the
// ordered chain lives in ParseQuestionList.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceRe       = regexp.MustCompile("(?i)```json\\s*|```\\s*")
	arrayRe       = regexp.MustCompile(`\[[\s\S]*?\]`)
	enumerationRe = regexp.MustCompile(`^\d+[\.\)]\s*`)
	leadQuoteRe   = regexp.MustCompile(`^["'-]\s*`)
	trailQuoteRe  = regexp.MustCompile(`\s*["'-]$`)
	numberedRe    = regexp.MustCompile(`^\d+\.`)
)

// StripFences removes markdown code fences the model wraps around JSON.
func StripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(strings.TrimSpace(text), ""))
}

// ParseQuestionList extracts a question list from raw model output. It
// tries, in order: direct JSON parse of the fence-stripped text, JSON parse
// of the first [...] span, and the line-splitting heuristic. Returns an
// error only when every stage comes up empty.
func ParseQuestionList(raw string) ([]string, error) {
	cleaned := StripFences(raw)

	if qs := parseJSONArray(cleaned); len(qs) > 0 {
		return qs, nil
	}

	if match := arrayRe.FindString(cleaned); match != "" {
		if qs := parseJSONArray(match); len(qs) > 0 {
			return qs, nil
		}
	}

	if qs := SplitQuestionLines(cleaned); len(qs) > 0 {
		return qs, nil
	}

	return nil, fmt.Errorf("no questions found in model output")
}

func parseJSONArray(text string) []string {
	var parsed []string
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil
	}
	out := make([]string, 0, len(parsed))
	for _, q := range parsed {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// SplitQuestionLines keeps lines that look like questions: longer than 10
// characters and either containing "?" or starting with an enumeration like
// "1.". Enumeration prefixes and stray quotes are stripped.
func SplitQuestionLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}
		if !strings.Contains(line, "?") && !numberedRe.MatchString(line) {
			continue
		}
		line = enumerationRe.ReplaceAllString(line, "")
		line = leadQuoteRe.ReplaceAllString(line, "")
		line = trailQuoteRe.ReplaceAllString(line, "")
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// DefaultQuestions is the last-resort template set, parameterized by the
// requested role, level, and tech stack and truncated to amount.
func DefaultQuestions(role, level string, techstack []string, amount int) []string {
	tech := "programming"
	if len(techstack) > 0 && techstack[0] != "" {
		tech = techstack[0]
	}
	defaults := []string{
		fmt.Sprintf("What experience do you have with %s?", tech),
		fmt.Sprintf("Tell me about a challenging project you worked on as a %s.", role),
		"How do you approach problem-solving in your development work?",
		fmt.Sprintf("What are your strengths as a %s developer?", level),
		"Where do you see yourself in 5 years?",
	}
	if amount <= 0 || amount > len(defaults) {
		return defaults
	}
	return defaults[:amount]
}

// Truncate caps a question list to amount without failing short lists.
func Truncate(questions []string, amount int) []string {
	if amount > 0 && len(questions) > amount {
		return questions[:amount]
	}
	return questions
}
