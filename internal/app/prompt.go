package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/dshills/jex/internal/renderer/backend"
)

// Prompt fields. Each keeps its own history.
const (
	FieldQuery  = "query"
	FieldSearch = "search"
	FieldRename = "rename"
	FieldSave   = "save"
	FieldOpen   = "open"
)

// Prompter reads one line of text from the user. It returns
// ErrPromptCanceled when the user abandons the prompt.
type Prompter interface {
	Prompt(field, prompt, initial string) (string, error)
}

// historyLimit bounds the entries remembered per field.
const historyLimit = 100

// LinerPrompter suspends the screen and edits the line on the plain
// terminal. History lives in memory for the session only.
type LinerPrompter struct {
	backend    backend.Backend
	history    map[string][]string
	isTerminal func() bool
}

// NewLinerPrompter returns a prompter that hands the terminal over while
// a line is edited.
func NewLinerPrompter(b backend.Backend) *LinerPrompter {
	return &LinerPrompter{
		backend:    b,
		history:    make(map[string][]string),
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// Prompt implements Prompter.
func (p *LinerPrompter) Prompt(field, prompt, initial string) (text string, err error) {
	if !p.isTerminal() {
		return "", ErrNoTerminal
	}
	if err := p.backend.Suspend(); err != nil {
		return "", fmt.Errorf("suspend screen: %w", err)
	}
	defer func() {
		if rerr := p.backend.Resume(); rerr != nil && err == nil {
			err = fmt.Errorf("resume screen: %w", rerr)
		}
	}()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	for _, h := range p.history[field] {
		line.AppendHistory(h)
	}

	text, err = line.PromptWithSuggestion(prompt, initial, -1)
	switch {
	case errors.Is(err, liner.ErrPromptAborted), errors.Is(err, io.EOF):
		return "", ErrPromptCanceled
	case err != nil:
		return "", err
	}
	p.remember(field, text)
	return text, nil
}

// History returns the remembered entries of field, oldest first.
func (p *LinerPrompter) History(field string) []string {
	return append([]string(nil), p.history[field]...)
}

func (p *LinerPrompter) remember(field, text string) {
	if text == "" {
		return
	}
	h := p.history[field]
	if n := len(h); n > 0 && h[n-1] == text {
		return
	}
	h = append(h, text)
	if len(h) > historyLimit {
		h = h[len(h)-historyLimit:]
	}
	p.history[field] = h
}
