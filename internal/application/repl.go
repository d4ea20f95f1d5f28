// Package application runs the interactive search prompt.
package application

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/pricelist/internal/core"
	"github.com/JonMunkholm/pricelist/internal/export"
)

// ExitCommand ends the prompt loop.
const ExitCommand = "exit"

// Prompt is printed before every query.
const Prompt = `Enter search text or "exit" to quit: `

// Searcher answers catalog queries.
type Searcher interface {
	Search(query string) []core.Entry
}

// REPL reads queries line by line and prints the ranked matches.
type REPL struct {
	search Searcher
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

// NewREPL creates a prompt loop over in and out. A nil logger uses the
// default slog logger.
func NewREPL(search Searcher, in io.Reader, out io.Writer, logger *slog.Logger) *REPL {
	if logger == nil {
		logger = slog.Default()
	}
	return &REPL{search: search, in: in, out: out, logger: logger}
}

// Run loops until the exit command is read or input ends. Cancelling ctx
// stops it without waiting for the next line.
func (r *REPL) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, Prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return ctx.Err()
		case err := <-readErr:
			fmt.Fprintln(r.out)
			return err
		case line = <-lines:
		}

		query := strings.TrimSpace(line)
		if query == ExitCommand {
			r.logger.Info("prompt closed")
			fmt.Fprintln(r.out, "Finishing work")
			return nil
		}

		found := r.search.Search(query)
		if len(found) == 0 {
			r.logger.Info("nothing found", "query", query)
			fmt.Fprintln(r.out, "Nothing found")
			continue
		}

		r.logger.Info("query answered", "query", query, "matches", len(found))
		fmt.Fprintf(r.out, "Found %d items:\n", len(found))
		if err := WriteTable(r.out, found); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}
}

// WriteTable prints entries as aligned columns: number, name, price, weight,
// file and price per kilogram.
func WriteTable(w io.Writer, entries []core.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "№\tName\tPrice\tWeight\tFile\tPrice per kg\t")
	for i, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			strconv.Itoa(i+1),
			e.Name,
			export.FormatMoney(e.Price),
			export.FormatWeight(e.Weight),
			e.SourceFile,
			export.FormatMoney(e.PricePerUnit()),
		)
	}
	return tw.Flush()
}
