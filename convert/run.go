package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/ianaindex"

	"glossa/archive"
	"glossa/config"
	"glossa/state"
)

// job is a single markdown document to be processed.
type job struct {
	// src is the document path relative to the processed source (always
	// including file name). When actual file was specified it is just base
	// file name, inside archive or directory it is relative path there.
	src string
	// origin identifies document in logs.
	origin string
	load   func() ([]byte, error)
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format, err := config.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to xhtml", zap.Error(err))
		format = config.OutputFmtXhtml
	}

	if cmd.IsSet("workers") {
		env.Cfg.Document.Workers = max(0, int(cmd.Int("workers")))
	}
	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	if env.Stylesheet, err = prepareStylesheet(&env.Cfg.Document, log); err != nil {
		return err
	}
	setCodePage(cmd.String("force-zip-cp"), env, log)

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, format, log)
}

func sourceArg(cmd *cli.Command) (string, error) {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return "", errors.New("no input source has been specified")
	}
	return filepath.Abs(src)
}

// setCodePage forces file name encoding for archives: zip "standard" does not
// define one and old archives may use archaic code pages.
func setCodePage(cp string, env *state.LocalEnv, log *zap.Logger) {
	if len(cp) == 0 {
		return
	}
	enc, err := ianaindex.IANA.Encoding(cp)
	if err != nil || enc == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		env.CodePage = nil
		return
	}
	env.CodePage = enc
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
}

// process handles the core conversion logic independently of CLI framework.
func process(ctx context.Context, src, dst string, format config.OutputFmt, log *zap.Logger) error {
	jobs, err := collect(ctx, src, log)
	if err != nil {
		return err
	}
	return convertAll(ctx, jobs, dst, format, log)
}

// collect determines the input type (directory, archive, path inside archive
// or single file) and finds all documents to process.
func collect(ctx context.Context, src string, log *zap.Logger) ([]job, error) {
	var (
		head, tail string
		jobs       []job
	)
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if jobs, err = collectDir(ctx, head, log); err != nil {
				return nil, fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return nil, fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if jobs, err = collectArchive(ctx, head, filepath.ToSlash(tail), "", log); err != nil {
				return nil, fmt.Errorf("unable to process archive: %w", err)
			}
			if len(jobs) == 0 && len(tail) != 0 {
				return nil, fmt.Errorf("input source was not found in archive (%s) => (%s)", head, tail)
			}
			break
		}

		doc, enc, err := isMarkdownFile(head)
		if err != nil {
			return nil, fmt.Errorf("unable to check file type: %w", err)
		}
		if doc && len(tail) == 0 {
			jobs = append(jobs, fileJob(head, filepath.Base(head), enc))
			break
		}
		return nil, fmt.Errorf("input was not recognized as markdown document (%s)", head)
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("input source was not found (%s)", src)
	}
	return jobs, nil
}

func fileJob(path, src string, enc srcEncoding) job {
	return job{
		src:    src,
		origin: path,
		load: func() ([]byte, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return io.ReadAll(selectReader(f, enc))
		},
	}
}

// collectDir walks directory tree finding markdown documents and archives
// with them.
func collectDir(ctx context.Context, dir string, log *zap.Logger) ([]job, error) {
	var jobs []job
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			found, err := collectArchive(ctx, path, "", filepath.Dir(rel), log)
			if err != nil {
				log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
				return nil
			}
			jobs = append(jobs, found...)
			return nil
		}

		doc, enc, err := isMarkdownFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !doc {
			log.Debug("Skipping file, not recognized as markdown document or archive", zap.String("file", path))
			return nil
		}
		jobs = append(jobs, fileJob(path, rel, enc))
		return nil
	})
	if err == nil && len(jobs) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return jobs, err
}

// collectArchive reads all markdown documents inside archive located under
// "pathIn". Documents are read into memory, so archive is not kept open.
func collectArchive(ctx context.Context, path, pathIn, pathOut string, log *zap.Logger) ([]job, error) {
	cp := state.EnvFromContext(ctx).CodePage

	var jobs []job
	err := archive.Walk(path, pathIn, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		doc, enc, err := isMarkdownInArchive(f)
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		if !doc {
			log.Debug("Skipping file, not recognized as markdown document", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}

		pathInArchive := f.Name
		if cp != nil && f.NonUTF8 {
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to read file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			return nil
		}
		data, err := io.ReadAll(selectReader(r, enc))
		r.Close()
		if err != nil {
			log.Error("Unable to read file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			return nil
		}

		jobs = append(jobs, job{
			src:    filepath.Join(pathOut, filepath.FromSlash(pathInArchive)),
			origin: filepath.Join(arc, filepath.FromSlash(pathInArchive)),
			load:   func() ([]byte, error) { return data, nil },
		})
		return nil
	})
	if err == nil && len(jobs) == 0 {
		log.Debug("Nothing to process", zap.String("archive", path))
	}
	return jobs, err
}

func sortJobs(jobs []job) {
	slices.SortStableFunc(jobs, func(a, b job) int {
		switch {
		case a.origin == b.origin:
			return 0
		case natural.Less(a.origin, b.origin):
			return -1
		default:
			return 1
		}
	})
}

// convertAll converts documents concurrently. Failure of a single document
// does not stop processing of others.
func convertAll(ctx context.Context, jobs []job, dst string, format config.OutputFmt, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)
	sortJobs(jobs)

	var failed atomic.Int64
	outputs := make(map[string]string, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(env.Workers())
	for _, j := range jobs {
		outputName := buildOutputPath(j.src, dst, format, env)
		if prev, exists := outputs[outputName]; exists {
			log.Error("Skipping document, output name is already used",
				zap.String("file", j.origin), zap.String("to", outputName), zap.String("used by", prev))
			failed.Add(1)
			continue
		}
		outputs[outputName] = j.origin

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := processDocument(gctx, j, outputName, format, log); err != nil {
				log.Error("Unable to process document", zap.String("file", j.origin), zap.Error(err))
				failed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d document(s) were not converted", n, len(jobs))
	}
	return nil
}
