package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

var items = []string{"Add user", "List users", "Exit"}

func TestLine_Choose(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1\n", 0},
		{"3\n", 2},
		{" 2 \r\n", 1},
		{"2", 1},
		{"0\n", -1},
		{"4\n", -1},
		{"-1\n", -1},
		{"abc\n", -1},
		{"\n", -1},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			l := NewLine(strings.NewReader(tt.input), &out)

			got, err := l.Choose(context.Background(), "Menu", items)
			if err != nil {
				t.Fatalf("Choose() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Choose() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLine_ChooseOutput(t *testing.T) {
	var out bytes.Buffer
	l := NewLine(strings.NewReader("1\n"), &out)

	if _, err := l.Choose(context.Background(), "Menu", items); err != nil {
		t.Fatal(err)
	}

	want := "Menu:\n1. Add user\n2. List users\n3. Exit\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestLine_Input(t *testing.T) {
	var out bytes.Buffer
	l := NewLine(strings.NewReader("  Alice  \r\n30\nlast"), &out)
	ctx := context.Background()

	for _, want := range []string{"  Alice  ", "30", "last"} {
		got, err := l.Input(ctx, "Enter value")
		if err != nil {
			t.Fatalf("Input() error = %v", err)
		}
		if got != want {
			t.Errorf("Input() = %q, want %q", got, want)
		}
	}

	if _, err := l.Input(ctx, "Enter value"); err != io.EOF {
		t.Errorf("Input() at end error = %v, want io.EOF", err)
	}
	if !strings.HasPrefix(out.String(), "Enter value: ") {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestLine_ChooseEOF(t *testing.T) {
	l := NewLine(strings.NewReader(""), io.Discard)
	if _, err := l.Choose(context.Background(), "Menu", items); err != io.EOF {
		t.Errorf("Choose() error = %v, want io.EOF", err)
	}
}

func TestLine_InputCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	l := NewLine(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := l.Input(ctx, "Enter name")
		done <- err
	}()
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Input() error = %v, want context.Canceled", err)
	}

	// The abandoned read still delivers the next line.
	go func() { _, _ = io.WriteString(pw, "Alice\n") }()
	got, err := l.Input(context.Background(), "Enter name")
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if got != "Alice" {
		t.Errorf("Input() = %q, want Alice", got)
	}
}

func TestLine_ChooseCancelledBeforeRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLine(strings.NewReader("1\n"), io.Discard)
	if _, err := l.Choose(ctx, "Menu", items); !errors.Is(err, context.Canceled) {
		t.Errorf("Choose() error = %v, want context.Canceled", err)
	}
}
