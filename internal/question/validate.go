package question

import (
	"fmt"
	"strings"
)

// Issue captures a validation problem in an answer key.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("answer key validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// NormalizeAnswerKey trims identifiers and validates an answer key.
func NormalizeAnswerKey(key AnswerKey) (AnswerKey, error) {
	collector := &issueCollector{}
	if key.Version == 0 {
		collector.add("version", "is required")
	} else if key.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", key.Version))
	}
	if len(key.Answers) == 0 {
		collector.add("answers", "must include at least one entry")
	}

	seenIDs := map[string]struct{}{}
	seenNumbers := map[int]struct{}{}
	for i, entry := range key.Answers {
		prefix := fmt.Sprintf("answers[%d]", i)
		entry.Question = strings.TrimSpace(entry.Question)
		switch {
		case entry.Question != "":
			if _, exists := seenIDs[entry.Question]; exists {
				collector.add(prefix+".question", fmt.Sprintf("duplicate id %q", entry.Question))
			}
			seenIDs[entry.Question] = struct{}{}
		case entry.Number > 0:
			if _, exists := seenNumbers[entry.Number]; exists {
				collector.add(prefix+".number", fmt.Sprintf("duplicate number %d", entry.Number))
			}
			seenNumbers[entry.Number] = struct{}{}
		case entry.Number < 0:
			collector.add(prefix+".number", "must be positive")
		default:
			collector.add(prefix+".question", "question id or number is required")
		}
		if entry.Suggestion.Empty() {
			collector.add(prefix, "must claim choice ids or text")
		}
		key.Answers[i] = entry
	}

	if err := collector.result(); err != nil {
		return AnswerKey{}, err
	}
	return key, nil
}
