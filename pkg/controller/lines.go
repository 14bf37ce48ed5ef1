package controller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Serve reads protocol lines from r until EOF or ctx is done and answers
// each on w with "OK LED_<NAME>:<0|1>" or "ERR <reason>". Blank lines are
// skipped.
//
// Serve returns as soon as ctx is done, even while a read is blocked. The
// reading goroutine then exits on its next line or on EOF, and nothing it
// reads after ctx is done is applied.
func (c *Controller) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case line := <-lines:
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.serveLine(strings.TrimSpace(line), w); err != nil {
				return err
			}
		}
	}
}

func (c *Controller) serveLine(line string, w io.Writer) error {
	if line == "" {
		return nil
	}
	st, err := c.ApplyLine(line)
	if err != nil {
		c.logger.Warn("rejected command", "line", line, "error", err)
		_, err = fmt.Fprintf(w, "ERR %v\n", err)
		return err
	}
	_, err = fmt.Fprintf(w, "OK %s\n", st.Command())
	return err
}
