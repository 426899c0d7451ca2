package css

import (
	"io"
	"regexp"
	"strings"
)

// Declaration is a single property declaration.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a ruleset: selectors and declarations.
type Rule struct {
	Selectors    []string
	Declarations []Declaration
}

// AtRule is an @-rule, possibly with a block. Blocks of conditional rules
// (@media, @supports) hold nested rules, descriptor blocks (@font-face,
// @page) hold declarations.
type AtRule struct {
	Name         string
	Prelude      string
	Block        bool
	Rules        []Rule
	Declarations []Declaration
}

// Item is either Rule or AtRule, exactly one is set.
type Item struct {
	Rule   *Rule
	AtRule *AtRule
}

// Stylesheet is parsed stylesheet.
type Stylesheet struct {
	Items []Item
	// Warnings describe problems found during parsing, for reporting.
	Warnings []string
}

var classSelector = regexp.MustCompile(`\.[A-Za-z_][\w-]*`)

// Classes returns class names referenced by selectors in order of first
// appearance.
func (s *Stylesheet) Classes() []string {
	var (
		classes []string
		seen    = map[string]bool{}
	)
	s.eachRule(func(r *Rule) {
		for _, sel := range r.Selectors {
			for _, m := range classSelector.FindAllString(sel, -1) {
				if name := m[1:]; !seen[name] {
					seen[name] = true
					classes = append(classes, name)
				}
			}
		}
	})
	return classes
}

// HasClass reports whether any selector references class name.
func (s *Stylesheet) HasClass(name string) bool {
	for _, c := range s.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// RenamePrefix replaces class prefix in all selectors: with from "gloss" and
// to "ex" selector ".gloss .gloss-text" becomes ".ex .ex-text". Other classes
// are left alone.
func (s *Stylesheet) RenamePrefix(from, to string) {
	if from == to {
		return
	}
	s.eachRule(func(r *Rule) {
		for i, sel := range r.Selectors {
			r.Selectors[i] = classSelector.ReplaceAllStringFunc(sel, func(m string) string {
				name := m[1:]
				if name == from {
					return "." + to
				}
				if rest, ok := strings.CutPrefix(name, from+"-"); ok {
					return "." + to + "-" + rest
				}
				return m
			})
		}
	})
}

func (s *Stylesheet) eachRule(fn func(*Rule)) {
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			fn(item.Rule)
		case item.AtRule != nil:
			for i := range item.AtRule.Rules {
				fn(&item.AtRule.Rules[i])
			}
		}
	}
}

// WriteTo writes stylesheet in normalized form.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for i, item := range s.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch {
		case item.Rule != nil:
			writeRule(&b, item.Rule, "")
		case item.AtRule != nil:
			writeAtRule(&b, item.AtRule)
		}
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// String returns normalized stylesheet text.
func (s *Stylesheet) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}

func writeRule(b *strings.Builder, r *Rule, indent string) {
	b.WriteString(indent)
	b.WriteString(strings.Join(r.Selectors, ", "))
	b.WriteString(" {\n")
	writeDeclarations(b, r.Declarations, indent+"  ")
	b.WriteString(indent)
	b.WriteString("}\n")
}

func writeAtRule(b *strings.Builder, r *AtRule) {
	b.WriteString(r.Name)
	if r.Prelude != "" {
		b.WriteByte(' ')
		b.WriteString(r.Prelude)
	}
	if !r.Block {
		b.WriteString(";\n")
		return
	}
	b.WriteString(" {\n")
	writeDeclarations(b, r.Declarations, "  ")
	for i := range r.Rules {
		writeRule(b, &r.Rules[i], "  ")
	}
	b.WriteString("}\n")
}

func writeDeclarations(b *strings.Builder, decls []Declaration, indent string) {
	for _, d := range decls {
		b.WriteString(indent)
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteString(";\n")
	}
}
