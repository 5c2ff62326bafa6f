// Package dump turns the text dump of a deck's notes table into tag records.
package dump

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/pbaille/ankigraph/internal/domain"
	"github.com/pbaille/ankigraph/internal/logger"
)

// DefaultSeparator starts every note row in the dump
const DefaultSeparator = "INSERT INTO notes VALUES"

// tagField is the index of the tags column after splitting a row on quotes
const tagField = 3

// Result counts what the parser saw
type Result struct {
	Chunks    int `json:"chunks"`
	Records   int `json:"records"`
	Malformed int `json:"malformed"`
	Untagged  int `json:"untagged"`
}

// Option configures Parse
type Option func(*parser)

// WithSeparator overrides the statement marker used to split rows
func WithSeparator(sep string) Option {
	return func(p *parser) {
		if sep != "" {
			p.separator = sep
		}
	}
}

// WithLogger sets the logger used for malformed rows
func WithLogger(l *logger.Logger) Option {
	return func(p *parser) {
		if l != nil {
			p.log = l
		}
	}
}

type parser struct {
	separator string
	log       *logger.Logger
}

// Parse reads a dump and returns one record per tagged note
func Parse(r io.Reader, opts ...Option) ([]domain.Record, Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, Result{}, fmt.Errorf("read dump: %w", err)
	}
	return ParseString(string(content), opts...)
}

// ParseString parses dump content held in memory
func ParseString(content string, opts ...Option) ([]domain.Record, Result, error) {
	p := &parser{separator: DefaultSeparator, log: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}

	var (
		records []domain.Record
		res     Result
	)
	for i, chunk := range strings.Split(content, p.separator) {
		res.Chunks++
		fields := strings.Split(chunk, "'")
		if len(fields) == 1 {
			// no quoted columns: preamble or trailing text
			continue
		}
		if len(fields) <= tagField {
			res.Malformed++
			p.log.Warn("skipping malformed note row", "chunk", i, "fields", len(fields), "row", truncate(chunk, 120))
			continue
		}
		tags := strings.Fields(html.UnescapeString(fields[tagField]))
		if len(tags) == 0 {
			res.Untagged++
			continue
		}
		records = append(records, domain.Record(tags))
	}
	res.Records = len(records)

	p.log.Debug("dump parsed",
		"chunks", res.Chunks,
		"records", res.Records,
		"malformed", res.Malformed,
		"untagged", res.Untagged,
	)
	return records, res, nil
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
