package config

//go:generate go tool go-enum --marshal --names

// Specification of requested output type.
// ENUM(html, xhtml)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtHtml:
		return ".html"
	case OutputFmtXhtml:
		return ".xhtml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// AsXHTML reports whether documents of this type are serialized as XML.
func (o OutputFmt) AsXHTML() bool {
	return o == OutputFmtXhtml
}
