package cli

import (
	"io"

	"charm.land/huh/v2"
)

// Confirm asks a yes/no question. Non-interactive sessions are not asked and
// get true, so scripts are never blocked on a prompt.
func Confirm(in io.Reader, out io.Writer, title, description string) (bool, error) {
	if !IsTerminal(in) || !IsTerminal(out) {
		return true, nil
	}

	confirmed := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, err
	}
	return confirmed, nil
}

// PromptSecret asks for a value without echoing it
func PromptSecret(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	return value, err
}
