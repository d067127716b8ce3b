package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// confirm asks a yes/no question. Only "y" or "yes" count as yes; EOF,
// a read error or a cancelled ctx is a no.
func confirm(ctx context.Context, in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)

	// the read cannot be interrupted, so it runs aside and is abandoned on cancel
	answer := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			close(answer)
			return
		}
		answer <- line
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(out)
		return false
	case line, ok := <-answer:
		if !ok {
			fmt.Fprintln(out)
			return false
		}
		reply := strings.ToLower(strings.TrimSpace(line))
		return reply == "y" || reply == "yes"
	}
}
