// Package classify suggests a transaction category for a free-text
// description by asking a text-completion provider and scanning its answer
// for a category name. The parse is a best-effort heuristic over free text
// from an external model, not a guaranteed-correct mapping: tokens are
// normalised to upper case and matched exactly against the enumeration, and
// the first matching token in scan order wins. The suggestion is advisory
// only — nothing here persists anything.
package classify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fintrack/fintrack/internal/models"
)

// Completer is the narrow capability the classifier needs from a completion
// provider: one prompt in, the provider's completion choices out.
type Completer interface {
	Complete(ctx context.Context, prompt string) ([]string, error)
}

// Error reports that the provider's output could not be resolved to a
// category. The reason travels to the caller verbatim.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "classification failed: " + e.Reason
}

var wordPattern = regexp.MustCompile(`\w+`)

type Classifier struct {
	provider Completer
}

func New(provider Completer) *Classifier {
	return &Classifier{provider: provider}
}

// SuggestCategory asks the provider to label description with one of the
// category enumeration members and parses the reply. It returns a *Error when
// the provider returns nothing usable or names a category outside the
// enumeration.
func (c *Classifier) SuggestCategory(ctx context.Context, description string) (models.Category, error) {
	choices, err := c.provider.Complete(ctx, buildPrompt(description))
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(choices) == 0 {
		return "", &Error{Reason: "No response"}
	}

	tokens := wordPattern.FindAllString(strings.ToUpper(choices[0]), -1)
	if len(tokens) == 0 {
		return "", &Error{Reason: "No category in response"}
	}

	for _, token := range tokens {
		if category, ok := models.CategoryFromToken(token); ok {
			return category, nil
		}
	}
	return "", &Error{Reason: fmt.Sprintf("%s is not a valid category, please enter it manually", tokens[0])}
}

func buildPrompt(description string) string {
	return fmt.Sprintf(
		"Classify the following expense description into exactly one of these categories: %s.\n"+
			"Respond with the category name only.\n\n"+
			"Description: %s",
		strings.Join(models.CategoryNames(), ", "),
		description,
	)
}
