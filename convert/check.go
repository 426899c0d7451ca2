package convert

import (
	"context"
	"fmt"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"glossa/markdown"
	"glossa/state"
)

type checkResult struct {
	glosses int
	diags   *markdown.Diagnostics
	err     error
}

// Check is "check" command action: documents are parsed and all problems
// with glosses are reported, nothing is written.
func Check(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	if cmd.IsSet("workers") {
		env.Cfg.Document.Workers = max(0, int(cmd.Int("workers")))
	}
	setCodePage(cmd.String("force-zip-cp"), env, log)

	// stylesheet problems are reported while preparing it
	if _, err := prepareStylesheet(&env.Cfg.Document, log); err != nil {
		return err
	}

	defer func(start time.Time) {
		log.Info("Check completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return check(ctx, src, log)
}

func check(ctx context.Context, src string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	jobs, err := collect(ctx, src, log)
	if err != nil {
		return err
	}
	sortJobs(jobs)

	results := make([]checkResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(env.Workers())
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkDocument(env, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// reported in document order regardless of processing order
	var failed, problems, glosses int
	for i, r := range results {
		j := jobs[i]
		if r.err != nil {
			log.Error("Unable to check document", zap.String("file", j.origin), zap.Error(r.err))
			failed++
			continue
		}
		glosses += r.glosses
		problems += r.diags.Len()
		reportDiagnostics(env, j, r.diags, log)
		log.Debug("Document checked", zap.String("file", j.origin), zap.Int("glosses", r.glosses), zap.Int("problems", r.diags.Len()))
	}

	log.Info("Documents checked",
		zap.Int("documents", len(jobs)), zap.Int("glosses", glosses), zap.Int("problems", problems), zap.Int("failed", failed))

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d document(s) could not be checked", failed, len(jobs))
	case problems > 0:
		return fmt.Errorf("%d gloss problem(s) found", problems)
	}
	return nil
}

func checkDocument(env *state.LocalEnv, j job) (res checkResult) {
	defer func() {
		if r := recover(); r != nil {
			res = checkResult{err: fmt.Errorf("check panic: %v", r)}
		}
	}()

	data, err := j.load()
	if err != nil {
		return checkResult{err: fmt.Errorf("unable to read markdown source: %w", err)}
	}
	doc, err := markdown.Convert(data, &env.Cfg.Document.Gloss)
	if err != nil {
		return checkResult{err: err}
	}
	return checkResult{glosses: doc.Glosses, diags: doc.Diagnostics}
}
