// Package menu drives the interactive numbered menu over the record store.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/qntx/userdb/internal/store"
	"github.com/qntx/userdb/internal/ui"
)

const Title = "userdb menu"

// Menu choices, in display order.
const (
	ChoiceAdd = iota
	ChoiceList
	ChoiceUpdate
	ChoiceDelete
	ChoiceExit
)

var Items = []string{
	ChoiceAdd:    "Add user",
	ChoiceList:   "List users",
	ChoiceUpdate: "Update user",
	ChoiceDelete: "Delete user",
	ChoiceExit:   "Exit",
}

// Prompter asks the user for a menu choice or a line of text. Choose
// returns -1 for an answer that is not one of items. Both return io.EOF
// when no more input will arrive.
type Prompter interface {
	Choose(ctx context.Context, title string, items []string) (int, error)
	Input(ctx context.Context, label string) (string, error)
}

// Records is the part of the record store the menu drives.
type Records interface {
	Create(ctx context.Context, name string, age int64, address string) (store.User, error)
	All(ctx context.Context) ([]store.User, error)
	Update(ctx context.Context, id int64, name string, age int64, address string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Menu runs the choose-act loop until the user exits.
type Menu struct {
	Records  Records
	Prompter Prompter
	Printer  *ui.Printer

	// KeepGoing prints input and store errors and shows the menu again.
	// Otherwise the first such error ends Run.
	KeepGoing bool
}

// Run shows the menu until Exit is chosen or input ends, both of which
// return nil. A done ctx ends Run with ctx.Err, even with KeepGoing.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := m.Prompter.Choose(ctx, Title, Items)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read choice: %w", err)
		}
		if choice == ChoiceExit {
			return nil
		}

		err = m.dispatch(ctx, choice)
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if !m.KeepGoing || !recoverable(err) {
			return err
		}
		m.Printer.Error("%v", err)
	}
}

func (m *Menu) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case ChoiceAdd:
		return m.add(ctx)
	case ChoiceList:
		return m.list(ctx)
	case ChoiceUpdate:
		return m.update(ctx)
	case ChoiceDelete:
		return m.delete(ctx)
	default:
		m.Printer.Warn("Invalid option, please try again.")
		return nil
	}
}

func (m *Menu) add(ctx context.Context) error {
	name, err := m.text(ctx, "Enter name")
	if err != nil {
		return err
	}
	age, err := m.number(ctx, "age", "Enter age")
	if err != nil {
		return err
	}
	address, err := m.text(ctx, "Enter address")
	if err != nil {
		return err
	}

	if _, err := m.Records.Create(ctx, name, age, address); err != nil {
		return err
	}
	m.Printer.Success("User added successfully!")
	return nil
}

func (m *Menu) list(ctx context.Context) error {
	users, err := m.Records.All(ctx)
	if err != nil {
		return err
	}
	m.Printer.Users(users)
	return nil
}

func (m *Menu) update(ctx context.Context) error {
	id, err := m.number(ctx, "id", "Enter user ID to update")
	if err != nil {
		return err
	}
	name, err := m.text(ctx, "Enter new name")
	if err != nil {
		return err
	}
	age, err := m.number(ctx, "age", "Enter new age")
	if err != nil {
		return err
	}
	address, err := m.text(ctx, "Enter new address")
	if err != nil {
		return err
	}

	if _, err := m.Records.Update(ctx, id, name, age, address); err != nil {
		return err
	}
	m.Printer.Success("User updated successfully!")
	return nil
}

func (m *Menu) delete(ctx context.Context) error {
	id, err := m.number(ctx, "id", "Enter user ID to delete")
	if err != nil {
		return err
	}

	if _, err := m.Records.Delete(ctx, id); err != nil {
		return err
	}
	m.Printer.Success("User deleted successfully!")
	return nil
}

func (m *Menu) text(ctx context.Context, label string) (string, error) {
	s, err := m.Prompter.Input(ctx, label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (m *Menu) number(ctx context.Context, field, label string) (int64, error) {
	s, err := m.text(ctx, label)
	if err != nil {
		return 0, err
	}
	return ParseInt(field, s)
}

// InputParseError reports a numeric field that did not parse.
type InputParseError struct {
	Field string
	Input string
	Err   error
}

func (e *InputParseError) Error() string {
	return fmt.Sprintf("please enter a valid number for %s: %q", e.Field, e.Input)
}

func (e *InputParseError) Unwrap() error { return e.Err }

// ExitCode marks bad input as a usage error.
func (e *InputParseError) ExitCode() int { return 2 }

// ParseInt parses a decimal integer typed for field.
func ParseInt(field, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &InputParseError{Field: field, Input: s, Err: err}
	}
	return n, nil
}

func recoverable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var parseErr *InputParseError
	var storeErr *store.StoreError
	return errors.As(err, &parseErr) || errors.As(err, &storeErr)
}
