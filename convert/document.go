package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"glossa/config"
	"glossa/markdown"
	"glossa/state"
	"glossa/xhtml"
)

// processDocument converts a single markdown document into outputName.
func processDocument(ctx context.Context, j job, outputName string, format config.OutputFmt, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var glosses, problems int

	log.Info("Conversion starting", zap.String("from", j.origin))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName),
				zap.Int("glosses", glosses), zap.Int("problems", problems))
		}
	}(time.Now())

	data, err := j.load()
	if err != nil {
		return fmt.Errorf("unable to read markdown source (%s): %w", j.origin, err)
	}

	doc, err := markdown.Convert(data, &env.Cfg.Document.Gloss)
	if err != nil {
		return fmt.Errorf("unable to convert markdown source (%s): %w", j.origin, err)
	}
	glosses, problems = doc.Glosses, doc.Diagnostics.Len()
	reportDiagnostics(env, j, doc.Diagnostics, log)
	if env.Rpt != nil && glosses > 0 {
		env.Rpt.StoreData("structure/"+filepath.ToSlash(j.src)+".txt", []byte(doc.Dump()))
	}

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	title := doc.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(j.src), filepath.Ext(j.src))
	}
	if err := writeDocument(outputName, title, env.Stylesheet, doc.Body, format); err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}

	// Store conversion result for debugging
	if env.Rpt != nil {
		env.Rpt.Store("result/"+filepath.ToSlash(j.src)+format.Ext(), outputName)
	}
	return nil
}

func writeDocument(outputName, title string, stylesheet, body []byte, format config.OutputFmt) (err error) {
	f, err := os.Create(outputName)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(outputName)
		}
	}()
	return xhtml.WriteDocument(f, title, stylesheet, body, format.AsXHTML())
}

// reportDiagnostics logs problems found in gloss containers and, when
// debugging, puts them into the report.
func reportDiagnostics(env *state.LocalEnv, j job, diags *markdown.Diagnostics, log *zap.Logger) {
	if diags.Len() == 0 {
		return
	}
	var sb strings.Builder
	for _, d := range diags.Items() {
		log.Warn("Gloss was left unformatted",
			zap.String("file", j.origin), zap.Int("line", d.Line), zap.Int("block", d.Block), zap.Error(d.Err))
		fmt.Fprintln(&sb, d.Error())
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("diagnostics/"+filepath.ToSlash(j.src)+".txt", []byte(sb.String()))
	}
}
