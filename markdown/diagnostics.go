package markdown

import (
	"fmt"

	"github.com/yuin/goldmark/parser"
	"go.uber.org/multierr"
)

var diagnosticsKey = parser.NewContextKey()

// Diagnostic is a non fatal problem found in a gloss container. The
// container is left unformatted, the rest of the document is not affected.
type Diagnostic struct {
	// Line is the 1-based source line of the offending content.
	Line int
	// Block is the 1-based source line of the container opening fence.
	Block int
	Err   error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("line %d (gloss at line %d): %v", d.Line, d.Block, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics collects problems reported while parsing a single document.
type Diagnostics struct {
	items []Diagnostic
}

// DiagnosticsFrom returns diagnostics collected in parser context, creating
// empty collection if necessary.
func DiagnosticsFrom(pc parser.Context) *Diagnostics {
	if d, ok := pc.Get(diagnosticsKey).(*Diagnostics); ok {
		return d
	}
	d := &Diagnostics{}
	pc.Set(diagnosticsKey, d)
	return d
}

func (d *Diagnostics) add(item Diagnostic) {
	d.items = append(d.items, item)
}

// Items returns collected diagnostics in document order.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.items
}

// Len returns number of collected diagnostics.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// Err combines all diagnostics into a single error, nil when there are none.
func (d *Diagnostics) Err() error {
	var err error
	for _, item := range d.Items() {
		err = multierr.Append(err, item)
	}
	return err
}
