package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/examencivique/examencivique/internal/auth"
	"github.com/examencivique/examencivique/internal/catalog"
	"github.com/examencivique/examencivique/internal/config"
	"github.com/examencivique/examencivique/internal/exam"
	"github.com/examencivique/examencivique/internal/i18n"
	"github.com/examencivique/examencivique/internal/logging"
	"github.com/examencivique/examencivique/internal/progress"
	"github.com/examencivique/examencivique/internal/screen"
	"github.com/examencivique/examencivique/internal/store"
	"github.com/examencivique/examencivique/internal/study"
)

// env is the service graph shared by the TUI and the subcommands.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	logFile io.Closer
	store   *store.Store

	catalog  *catalog.Catalog
	report   catalog.Report
	progress *progress.Store
	auth     *auth.Service
	lang     *i18n.Manager
	exam     *exam.Engine
	study    *study.Engine
}

// openEnv reads the configuration, opens the log file and the database,
// and builds every service on top of them.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	logger, logFile := logging.New(cfg.LogPath, cfg.LogLevel)
	st, err := store.Open(dbPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)

	src := catalog.Embedded()
	if cfg.QuestionsPath != "" {
		src = catalog.Files(cfg.QuestionsPath, cfg.TranslationsPath)
	}
	cat, report := catalog.LoadWithReport(src, logger)

	e := &env{
		cfg:      cfg,
		logger:   logger,
		logFile:  logFile,
		store:    st,
		catalog:  cat,
		report:   report,
		progress: progress.NewStore(ctx, st, logger),
		auth:     auth.NewService(st, logger, auth.WithSessionTTL(cfg.SessionTTL)),
		lang:     i18n.NewManager(ctx, st, logger),
	}

	examOpts := []exam.Option{exam.WithPassRatio(cfg.PassRatio)}
	studyOpts := []study.Option{study.WithRecordRevisits(cfg.StudyRecordRevisits)}
	if cfg.AuthRequired {
		examOpts = append(examOpts, exam.WithGate(e.auth))
		studyOpts = append(studyOpts, study.WithGate(e.auth))
	}
	e.exam = exam.NewEngine(cat, e.progress, logger, examOpts...)
	e.study = study.NewEngine(cat, e.progress, logger, studyOpts...)
	return e, nil
}

// deps exposes the services to the screens.
func (e *env) deps() *screen.Deps {
	return &screen.Deps{
		Catalog:      e.catalog,
		Progress:     e.progress,
		Exam:         e.exam,
		Study:        e.study,
		Auth:         e.auth,
		Lang:         e.lang,
		AuthRequired: e.cfg.AuthRequired,
	}
}

// Close stops any running exam and releases the database and log file.
func (e *env) Close() {
	e.exam.Close()
	if err := e.store.Close(); err != nil {
		e.logger.Error("close store", "error", err)
	}
	e.logFile.Close()
}

// strings returns the UI strings of the stored language.
func (e *env) strings() *i18n.Strings { return e.lang.Strings() }
