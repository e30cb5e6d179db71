package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxWordLength    = 100
	MaxMeaningLength = 500
	MaxExampleLength = 1000
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateWordInput checks a submitted word before it reaches the database.
// Word and meaning are required; example is optional. Lengths count runes.
func ValidateWordInput(word, meaning, example string) error {
	word = strings.TrimSpace(word)
	meaning = strings.TrimSpace(meaning)
	example = strings.TrimSpace(example)

	if word == "" {
		return &ValidationError{Field: "german_word", Message: "German word is required"}
	}
	if meaning == "" {
		return &ValidationError{Field: "meaning", Message: "Meaning is required"}
	}
	if err := maxLen("german_word", "German word", word, MaxWordLength); err != nil {
		return err
	}
	if err := maxLen("meaning", "Meaning", meaning, MaxMeaningLength); err != nil {
		return err
	}
	return maxLen("example", "Example", example, MaxExampleLength)
}

func maxLen(field, label, s string, max int) error {
	if utf8.RuneCountInString(s) > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", label, max)}
	}
	return nil
}
