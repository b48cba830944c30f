package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/warp/shift-payroll/generic"
)

// readLog reads "YYYY-MM-DD text" lines. Blank lines and lines starting with
// '#' are skipped; a date with no text is kept as an empty entry.
func readLog(r io.Reader) ([]generic.Entry, error) {
	var entries []generic.Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		dateStr, text, _ := strings.Cut(line, " ")
		date, err := generic.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, generic.Entry{
			ID:   generic.EntryID(fmt.Sprintf("line-%d", lineNo)),
			Date: date,
			Text: strings.TrimSpace(text),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading shift log: %w", err)
	}
	return entries, nil
}
