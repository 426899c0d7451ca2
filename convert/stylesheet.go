package convert

import (
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"

	"glossa/config"
	"glossa/css"
)

//go:embed default.css
var defaultStylesheet []byte

// class prefix used by default.css
const defaultClassPrefix = "gloss"

// prepareStylesheet returns stylesheet to be embedded into produced
// documents. Default stylesheet is adjusted to configured class prefix. User
// stylesheet is used as is, problems found in it are only reported.
func prepareStylesheet(cfg *config.DocumentConfig, log *zap.Logger) ([]byte, error) {
	p := css.NewParser(log)
	prefix := cfg.Gloss.ClassPrefix

	if cfg.StylesheetPath == "" {
		if prefix == defaultClassPrefix {
			return defaultStylesheet, nil
		}
		sheet := p.Parse(defaultStylesheet, "default.css")
		sheet.RenamePrefix(defaultClassPrefix, prefix)
		return []byte(sheet.String()), nil
	}

	data, err := os.ReadFile(cfg.StylesheetPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet from %q: %w", cfg.StylesheetPath, err)
	}
	sheet := p.Parse(data, cfg.StylesheetPath)
	for _, w := range sheet.Warnings {
		log.Warn("Stylesheet problem", zap.String("file", cfg.StylesheetPath), zap.String("details", w))
	}
	if !sheet.HasClass(prefix) {
		log.Warn("Stylesheet has no rules for glosses", zap.String("file", cfg.StylesheetPath), zap.String("class", prefix))
	}
	return data, nil
}
