// Package prompt implements the line-based prompter: a numbered text menu
// and one line of input per answer.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Line reads answers line by line from r and writes prompts to w.
// A read abandoned by a cancelled context is kept and returned by the next
// Choose or Input.
type Line struct {
	r *bufio.Reader
	w io.Writer

	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewLine returns a Line prompter.
func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{r: bufio.NewReader(r), w: w}
}

// Choose prints title and the numbered items, then reads a choice. It
// returns the zero-based index, or -1 when the answer is not a listed
// number. io.EOF is returned once input is exhausted.
func (l *Line) Choose(ctx context.Context, title string, items []string) (int, error) {
	fmt.Fprintf(l.w, "%s:\n", title)
	for i, item := range items {
		fmt.Fprintf(l.w, "%d. %s\n", i+1, item)
	}

	answer, err := l.readLine(ctx)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(answer), 10, 32)
	if err != nil || n < 1 || int(n) > len(items) {
		return -1, nil
	}
	return int(n) - 1, nil
}

// Input prints label and returns the next line without its line ending.
func (l *Line) Input(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(l.w, "%s: ", label)
	return l.readLine(ctx)
}

// readLine waits for the next line or for ctx to be done, whichever comes
// first.
func (l *Line) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.pending == nil {
		ch := make(chan lineResult, 1)
		l.pending = ch
		go func() {
			line, err := l.r.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
	}

	var res lineResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-l.pending:
		l.pending = nil
	}

	if res.err == io.EOF && res.line != "" {
		res.err = nil
	}
	if res.err != nil {
		return "", res.err
	}
	return strings.TrimRight(res.line, "\r\n"), nil
}
