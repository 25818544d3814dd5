// Package tui implements the terminal prompter on huh forms.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
)

// Form prompts with huh select and input fields. Aborting a form
// (ctrl+c, esc) is reported as io.EOF so callers treat it as end of input.
type Form struct {
	Theme *huh.Theme
}

// Choose shows items as a select list and returns the chosen index.
func (f Form) Choose(ctx context.Context, title string, items []string) (int, error) {
	var idx int
	field := huh.NewSelect[int]().
		Title(title).
		Options(indexedOptions(items, func(s string) string { return s })...).
		Value(&idx)

	if err := f.run(ctx, field); err != nil {
		return 0, err
	}
	return idx, nil
}

// Input shows a single-line text input.
func (f Form) Input(ctx context.Context, label string) (string, error) {
	var value string
	field := huh.NewInput().
		Title(label).
		Value(&value)

	if err := f.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (f Form) run(ctx context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field))
	if f.Theme != nil {
		form = form.WithTheme(f.Theme)
	}

	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("form: %w", err)
	}
	return nil
}

func indexedOptions[T any](items []T, label func(T) string) []huh.Option[int] {
	opts := make([]huh.Option[int], len(items))
	for i, item := range items {
		opts[i] = huh.NewOption(label(item), i)
	}
	return opts
}
