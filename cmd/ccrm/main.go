package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/repository"
	"github.com/divyamsharma12/Campus-Record-Manager/internal/service"
	"github.com/divyamsharma12/Campus-Record-Manager/internal/validation"
	"github.com/divyamsharma12/Campus-Record-Manager/pkg/config"
	"github.com/divyamsharma12/Campus-Record-Manager/pkg/export"
	"github.com/divyamsharma12/Campus-Record-Manager/pkg/logger"
	"github.com/divyamsharma12/Campus-Record-Manager/pkg/storage"
)

const usage = `usage: ccrm [flags] command...

Records are loaded from the import files given by -students and -courses,
then each command runs in order:

  samples      write sample_students.csv and sample_courses.csv to the import folder
  export       export students and courses as CSV
  json         export students as JSON
  enrollments  export enrollments as CSV
  report       write the comprehensive text report
  report-pdf   write the comprehensive report as PDF
  backup       write a checksummed backup of students, courses and the report
  prune        remove backup files older than -retention
  list         list import and export files
  check        report enrollment bookkeeping mismatches

flags:
`

func main() {
	studentsFile := flag.String("students", "", "student CSV in the import folder to load first")
	coursesFile := flag.String("courses", "", "course CSV in the import folder to load first")
	retention := flag.Duration("retention", 30*24*time.Hour, "backup age removed by prune")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := newRunner(cfg, logr)
	if err != nil {
		logr.Fatal("failed to prepare folders", zap.Error(err))
	}

	if *studentsFile != "" {
		if _, err := r.transfer.ImportStudentsFile(ctx, *studentsFile); err != nil {
			logr.Fatal("student import failed", zap.String("path", cfg.ImportPath(*studentsFile)), zap.Error(err))
		}
	}
	if *coursesFile != "" {
		if _, err := r.transfer.ImportCoursesFile(ctx, *coursesFile); err != nil {
			logr.Fatal("course import failed", zap.String("path", cfg.ImportPath(*coursesFile)), zap.Error(err))
		}
	}

	commands := flag.Args()
	if len(commands) == 0 && *studentsFile == "" && *coursesFile == "" {
		flag.Usage()
		os.Exit(2)
	}
	for _, command := range commands {
		if err := r.run(ctx, command, *retention); err != nil {
			logr.Fatal("command failed", zap.String("command", command), zap.Error(err))
		}
	}
}

type runner struct {
	cfg      *config.Config
	records  *service.RecordsService
	transfer *service.TransferService
	logger   *zap.Logger
}

func newRunner(cfg *config.Config, logr *zap.Logger) (*runner, error) {
	imports, err := storage.NewLocalStorage(cfg.Folders.Import)
	if err != nil {
		return nil, err
	}
	exports, err := storage.NewLocalStorage(cfg.Folders.Export)
	if err != nil {
		return nil, err
	}
	backups, err := storage.NewLocalStorage(cfg.Folders.Backup)
	if err != nil {
		return nil, err
	}
	if _, err := storage.NewLocalStorage(cfg.Folders.Data); err != nil {
		return nil, err
	}
	folders := service.TransferFolders{Imports: imports, Exports: exports, Backups: backups}

	validate := validation.New()
	metrics := service.NewMetricsService()
	records := service.NewRecordsService(
		repository.NewStudentStore(validate),
		repository.NewCourseStore(validate),
		repository.NewEnrollmentStore(),
		cfg.Limits,
		metrics,
		logr,
	)
	transfer := service.NewTransferService(cfg, records, folders, metrics, logr, export.NewCSVExporter(), export.NewPDFExporter())
	return &runner{cfg: cfg, records: records, transfer: transfer, logger: logr}, nil
}

func (r *runner) run(ctx context.Context, command string, retention time.Duration) error {
	switch command {
	case "samples":
		_, err := r.transfer.WriteSampleImports(ctx)
		return err
	case "export":
		if _, err := r.transfer.ExportStudents(ctx, ""); err != nil {
			return err
		}
		_, err := r.transfer.ExportCourses(ctx, "")
		return err
	case "json":
		_, err := r.transfer.ExportStudentsJSON(ctx, "")
		return err
	case "enrollments":
		_, err := r.transfer.ExportEnrollments(ctx, "")
		return err
	case "report":
		_, err := r.transfer.FullReport(ctx)
		return err
	case "report-pdf":
		_, err := r.transfer.FullReportPDF(ctx)
		return err
	case "backup":
		_, err := r.transfer.Backup(ctx)
		return err
	case "prune":
		_, err := r.transfer.PruneBackups(ctx, retention)
		return err
	case "list":
		return r.list()
	case "check":
		issues := r.records.CheckConsistency()
		for _, issue := range issues {
			r.logger.Warn("bookkeeping mismatch", zap.String("issue", issue))
		}
		r.logger.Info("consistency check finished", zap.Int("issues", len(issues)))
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (r *runner) list() error {
	imports, err := r.transfer.ListImportFiles()
	if err != nil {
		return err
	}
	exports, err := r.transfer.ListExportFiles()
	if err != nil {
		return err
	}
	for _, group := range []struct {
		label string
		files []storage.FileInfo
		path  func(string) string
	}{{"import", imports, r.cfg.ImportPath}, {"export", exports, r.cfg.ExportPath}} {
		for _, file := range group.files {
			r.logger.Info("file", zap.String("folder", group.label), zap.String("path", group.path(file.Name)), zap.Int64("bytes", file.Size))
		}
	}
	return nil
}
