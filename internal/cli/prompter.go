package cli

import (
	"github.com/peterh/liner"
)

// Prompter reads one line of user input. Split from liner so the menu
// flows can be driven by a scripted prompter in tests.
type Prompter interface {
	Prompt(label string) (string, error)
	Password(label string) (string, error)
}

// LinerPrompter is the real terminal prompter.
type LinerPrompter struct {
	line *liner.State
}

func NewLinerPrompter() *LinerPrompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	return &LinerPrompter{line: line}
}

func (p *LinerPrompter) Prompt(label string) (string, error) {
	return p.line.Prompt(label)
}

// Password reads without echoing, for the 2FA prompt.
func (p *LinerPrompter) Password(label string) (string, error) {
	return p.line.PasswordPrompt(label)
}

func (p *LinerPrompter) Close() {
	p.line.Close()
}

// LoginPrompts adapts a Prompter to the login flow of the session
// adapter.
type LoginPrompts struct {
	P Prompter
}

func (l LoginPrompts) Code() (string, error) {
	return l.P.Prompt("Enter the code you received: ")
}

func (l LoginPrompts) Password() (string, error) {
	return l.P.Password("Your 2FA password: ")
}
