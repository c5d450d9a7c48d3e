package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("aborted by user")

// Prompter asks the user for the value of a placeholder. keys lists the
// form-data keys that were available, for help text.
type Prompter interface {
	Ask(ctx context.Context, placeholder string, keys []string) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Ask(ctx context.Context, placeholder string, keys []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prompt := &survey.Input{
		Message: fmt.Sprintf("Value for {{ %s }}:", placeholder),
		Help:    promptHelp(keys),
	}
	var out string
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errAborted
		}
		return "", err
	}
	return out, nil
}

func promptHelp(keys []string) string {
	if len(keys) == 0 {
		return "No form data was loaded. Leave empty to keep the placeholder blank."
	}
	return "No form key matched. Available keys: " + strings.Join(keys, ", ")
}
