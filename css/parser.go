// Package css parses stylesheets embedded into produced documents, so class
// names can be checked and adjusted to configured gloss class prefix.
package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Parsing never fails, problems are
// collected in Stylesheet.Warnings. The optional source parameter identifies
// what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var (
		pending []string
		rule    *Rule
		at      *AtRule
		// depth of nested @-rule blocks being skipped
		skip int
	)

	warn := func(msg string) {
		sheet.Warnings = append(sheet.Warnings, msg)
		p.log.Debug("CSS problem", zap.String("details", msg))
	}

	for {
		gt, _, data := parser.Next()

		if skip > 0 {
			switch gt {
			case css.BeginAtRuleGrammar:
				skip++
			case css.EndAtRuleGrammar:
				skip--
			}
			if gt != css.ErrorGrammar {
				continue
			}
		}

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				warn("parse error: " + err.Error())
			}
			if rule != nil || at != nil || skip > 0 {
				warn("unexpected end of stylesheet, unclosed block dropped")
			}
			return sheet

		case css.QualifiedRuleGrammar:
			pending = append(pending, splitSelectors(join(parser.Values()))...)

		case css.BeginRulesetGrammar:
			rule = &Rule{Selectors: dedupe(append(pending, splitSelectors(join(parser.Values()))...))}
			pending = nil

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			d := Declaration{Property: string(data), Value: join(parser.Values())}
			switch {
			case rule != nil:
				rule.Declarations = append(rule.Declarations, d)
			case at != nil:
				at.Declarations = append(at.Declarations, d)
			default:
				warn("declaration outside of block ignored: " + d.Property)
			}

		case css.EndRulesetGrammar:
			if rule == nil {
				continue
			}
			if at != nil {
				at.Rules = append(at.Rules, *rule)
			} else {
				sheet.Items = append(sheet.Items, Item{Rule: rule})
			}
			rule = nil

		case css.BeginAtRuleGrammar:
			name := string(data)
			if at != nil {
				warn("nested " + name + " is not supported, skipping")
				skip = 1
				continue
			}
			at = &AtRule{Name: name, Prelude: join(parser.Values()), Block: true}

		case css.EndAtRuleGrammar:
			if at != nil {
				sheet.Items = append(sheet.Items, Item{AtRule: at})
				at = nil
			}

		case css.AtRuleGrammar:
			name := string(data)
			if at != nil {
				warn("nested " + name + " is not supported, skipping")
				continue
			}
			sheet.Items = append(sheet.Items, Item{AtRule: &AtRule{Name: name, Prelude: join(parser.Values())}})
		}
	}
}

// join concatenates token data collapsing whitespace.
func join(tokens []css.Token) string {
	var (
		b     strings.Builder
		space bool
	)
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.Write(t.Data)
	}
	return b.String()
}

// splitSelectors splits selector list on top level commas.
func splitSelectors(list string) []string {
	var (
		out   []string
		depth int
		start int
	)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	for i, r := range list {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				add(list[start:i])
				start = i + 1
			}
		}
	}
	add(list[start:])
	return out
}

func dedupe(in []string) []string {
	out := in[:0]
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
