// Package prompt provides the terminal implementation of the interactive
// question capability used by import sessions.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudpool/poolimport/pkg/poolimport"
)

// Terminal implements poolimport.Prompter over line-based input. A question's
// validator runs before the answer is accepted; a rejected answer re-asks.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Terminal prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Select implements poolimport.Prompter. Choices are displayed numbered in
// the order given; the operator answers with a number.
func (t *Terminal) Select(ctx context.Context, q poolimport.Question) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fmt.Fprintln(t.out, q.Message)
		for i, c := range q.Choices {
			fmt.Fprintf(t.out, "  %d) %s\n", i+1, c.Label)
		}
		fmt.Fprintf(t.out, "Enter a number (1-%d): ", len(q.Choices))

		line, err := t.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return "", poolimport.ErrAborted("input closed before a choice was made")
			}
			return "", err
		}

		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 1 || n > len(q.Choices) {
			fmt.Fprintln(t.out, "Not a valid choice.")
			continue
		}

		value := q.Choices[n-1].Value
		if q.Validate != nil {
			if err := q.Validate(value); err != nil {
				fmt.Fprintf(t.out, "%v\n", err)
				if remediation := poolimport.GetRemediation(err); remediation != "" {
					fmt.Fprintln(t.out, remediation)
				}
				continue
			}
		}
		return value, nil
	}
}
