package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/divyamsharma12/Campus-Record-Manager/internal/csvcodec"
	"github.com/divyamsharma12/Campus-Record-Manager/internal/models"
	"github.com/divyamsharma12/Campus-Record-Manager/pkg/config"
	appErrors "github.com/divyamsharma12/Campus-Record-Manager/pkg/errors"
	"github.com/divyamsharma12/Campus-Record-Manager/pkg/export"
	"github.com/divyamsharma12/Campus-Record-Manager/pkg/storage"
)

const (
	DefaultStudentExport    = "students_export.csv"
	DefaultCourseExport     = "courses_export.csv"
	DefaultStudentJSON      = "students_export.json"
	DefaultEnrollmentExport = "enrollments_export.csv"

	SampleStudentsFile = "sample_students.csv"
	SampleCoursesFile  = "sample_courses.csv"

	fileStampLayout = "20060102_150405"
	exportedBy      = "CCRM System"
	manifestName    = "manifest.txt"
)

var sampleStudentLines = []string{
	"S004,REG2024004,David Wilson,david.wilson@university.edu,123-456-7890,Computer Science,2,ACTIVE",
	"S005,REG2024005,Emma Thompson,emma.thompson@university.edu,123-456-7891,Mathematics,3,ACTIVE",
	"S006,REG2024006,James Brown,james.brown@university.edu,123-456-7892,Physics,1,ACTIVE",
	"S007,REG2024007,Sarah Davis,sarah.davis@university.edu,123-456-7893,Chemistry,4,ACTIVE",
	"S008,REG2024008,Michael Johnson,michael.johnson@university.edu,123-456-7894,Biology,2,ACTIVE",
}

var sampleCourseLines = []string{
	"CS102,Data Structures,3,Dr. Smith,Computer Science,SPRING,Introduction to data structures and algorithms,40",
	"MATH301,Linear Algebra,4,Prof. Johnson,Mathematics,FALL,Vector spaces and linear transformations,35",
	"PHYS201,Physics II,3,Dr. Williams,Physics,SPRING,Electricity and magnetism,45",
	"CHEM101,General Chemistry,4,Prof. Davis,Chemistry,FALL,Basic principles of chemistry,50",
	"BIO101,Introduction to Biology,3,Dr. Miller,Biology,SPRING,Fundamentals of biological sciences,60",
}

type recordSource interface {
	RegisterStudent(student *models.Student) error
	RegisterCourse(course *models.Course) error
	Students() []*models.Student
	Courses() []*models.Course
	Enrollments() []*models.Enrollment
	Transcript(studentID string) ([]models.TranscriptEntry, error)
	StudentStatistics() models.StudentStatistics
	CourseStatistics() models.CourseStatistics
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	List(suffixes ...string) ([]storage.FileInfo, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
	Path(filename string) string
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	RenderText(title string, lines []string) ([]byte, error)
}

// TransferFolders groups the storage roots used by TransferService.
type TransferFolders struct {
	Imports fileStorage
	Exports fileStorage
	Backups fileStorage
}

// TransferOption customises a TransferService.
type TransferOption func(*TransferService)

// WithTransferClock overrides the time source used for timestamps.
func WithTransferClock(now func() time.Time) TransferOption {
	return func(s *TransferService) {
		if now != nil {
			s.now = now
		}
	}
}

// BackupResult describes one completed backup.
type BackupResult struct {
	ID        string
	Folder    string
	Files     []string
	Checksums map[string]string
	CreatedAt time.Time
}

// TransferService moves the record set in and out of flat files: CSV import
// and export, JSON export, reports and backups.
type TransferService struct {
	cfg     *config.Config
	records recordSource
	folders TransferFolders
	csv     csvRenderer
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewTransferService constructs a TransferService.
func NewTransferService(cfg *config.Config, records recordSource, folders TransferFolders, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, opts ...TransferOption) *TransferService {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	s := &TransferService{
		cfg:     cfg,
		records: records,
		folders: folders,
		csv:     csv,
		pdf:     pdf,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportStudentsFile imports a student CSV from the import folder. Row
// failures are reported in the result; an unreadable or empty file fails the
// whole call.
func (s *TransferService) ImportStudentsFile(ctx context.Context, filename string) (*csvcodec.ImportResult, error) {
	data, err := s.readImport(ctx, filename)
	if err != nil {
		return nil, err
	}
	result, err := csvcodec.ImportStudents(data, csvcodec.StudentSinkFunc(s.records.RegisterStudent))
	if err != nil {
		return nil, err
	}
	s.reportImport(entityStudent, filename, result)
	return result, nil
}

// ImportCoursesFile imports a course CSV from the import folder.
func (s *TransferService) ImportCoursesFile(ctx context.Context, filename string) (*csvcodec.ImportResult, error) {
	data, err := s.readImport(ctx, filename)
	if err != nil {
		return nil, err
	}
	result, err := csvcodec.ImportCourses(data, csvcodec.CourseSinkFunc(s.records.RegisterCourse))
	if err != nil {
		return nil, err
	}
	s.reportImport(entityCourse, filename, result)
	return result, nil
}

// ExportStudents writes every student as CSV into the export folder and
// returns the on-disk path.
func (s *TransferService) ExportStudents(ctx context.Context, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	filename = orDefault(filename, DefaultStudentExport)
	students := s.records.Students()
	path, err := s.save(s.folders.Exports, "students_csv", filename, csvcodec.EncodeStudents(students))
	if err != nil {
		return "", err
	}
	s.logger.Info("students exported", zap.String("path", path), zap.Int("count", len(students)))
	return path, nil
}

// ExportCourses writes every course as CSV into the export folder.
func (s *TransferService) ExportCourses(ctx context.Context, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	filename = orDefault(filename, DefaultCourseExport)
	courses := s.records.Courses()
	path, err := s.save(s.folders.Exports, "courses_csv", filename, csvcodec.EncodeCourses(courses))
	if err != nil {
		return "", err
	}
	s.logger.Info("courses exported", zap.String("path", path), zap.Int("count", len(courses)))
	return path, nil
}

type studentExportInfo struct {
	Timestamp     string `json:"timestamp"`
	TotalStudents int    `json:"totalStudents"`
	ExportedBy    string `json:"exportedBy"`
}

type studentJSON struct {
	ID              string   `json:"id"`
	RegNo           string   `json:"regNo"`
	FullName        string   `json:"fullName"`
	Email           string   `json:"email"`
	Department      string   `json:"department"`
	Semester        int      `json:"semester"`
	Status          string   `json:"status"`
	GPA             float64  `json:"gpa"`
	EnrolledCourses []string `json:"enrolledCourses"`
}

type studentJSONDocument struct {
	ExportInfo studentExportInfo `json:"exportInfo"`
	Students   []studentJSON     `json:"students"`
}

// ExportStudentsJSON writes every student as a JSON document with an export
// info header.
func (s *TransferService) ExportStudentsJSON(ctx context.Context, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	filename = orDefault(filename, DefaultStudentJSON)
	students := s.records.Students()
	doc := studentJSONDocument{
		ExportInfo: studentExportInfo{
			Timestamp:     s.now().Format(csvcodec.DateLayout),
			TotalStudents: len(students),
			ExportedBy:    exportedBy,
		},
		Students: make([]studentJSON, 0, len(students)),
	}
	for _, st := range students {
		doc.Students = append(doc.Students, studentJSON{
			ID:              st.ID,
			RegNo:           st.RegNo,
			FullName:        st.FullName,
			Email:           st.Email,
			Department:      st.Department,
			Semester:        st.Semester,
			Status:          string(st.Status),
			GPA:             st.GPA(),
			EnrolledCourses: st.EnrolledCourses(),
		})
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "encode students json")
	}
	path, err := s.save(s.folders.Exports, "students_json", filename, append(payload, '\n'))
	if err != nil {
		return "", err
	}
	s.logger.Info("students exported as json", zap.String("path", path), zap.Int("count", len(students)))
	return path, nil
}

// ExportEnrollments writes every enrollment record, dropped ones included.
func (s *TransferService) ExportEnrollments(ctx context.Context, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	filename = orDefault(filename, DefaultEnrollmentExport)
	enrollments := s.records.Enrollments()
	dataset := export.Dataset{
		Title:   "Enrollments",
		Headers: []string{"EnrollmentID", "StudentID", "CourseCode", "EnrollmentDate", "Status", "Grade", "Remarks"},
		Rows:    make([][]string, 0, len(enrollments)),
	}
	for _, e := range enrollments {
		grade := ""
		if e.AssignedGrade != nil {
			grade = string(*e.AssignedGrade)
		}
		dataset.Rows = append(dataset.Rows, []string{
			e.ID, e.StudentID, e.CourseCode, e.EnrolledAt.Format(csvcodec.DateLayout), string(e.Status), grade, e.Remarks,
		})
	}
	payload, err := s.csv.Render(dataset)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "render enrollments csv")
	}
	return s.save(s.folders.Exports, "enrollments_csv", filename, payload)
}

// TranscriptPDF renders a student's transcript as a PDF table in the export
// folder.
func (s *TransferService) TranscriptPDF(ctx context.Context, studentID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	entries, err := s.records.Transcript(studentID)
	if err != nil {
		return "", err
	}
	dataset := export.Dataset{
		Title:   fmt.Sprintf("Transcript %s", studentID),
		Headers: []string{"Course", "Status", "Grade"},
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, entry := range entries {
		dataset.Rows = append(dataset.Rows, []string{entry.CourseCode, entry.Status, entry.Grade})
	}
	payload, err := s.pdf.Render(dataset)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "render transcript pdf")
	}
	filename := fmt.Sprintf("transcript_%s_%s.pdf", studentID, s.now().Format(fileStampLayout))
	return s.save(s.folders.Exports, "transcript_pdf", filename, payload)
}

// BuildReport renders the comprehensive report as lines.
func (s *TransferService) BuildReport() []string {
	banner := strings.Repeat("=", 80)
	rule := strings.Repeat("-", 40)

	lines := []string{
		banner,
		"              CAMPUS COURSE & RECORDS MANAGER",
		"                    COMPREHENSIVE REPORT",
		banner,
		"Generated on: " + s.now().Format(csvcodec.DateLayout),
		fmt.Sprintf("System Version: %s v%s", s.cfg.AppName, s.cfg.Version),
		"",
	}

	studentStats := s.records.StudentStatistics()
	lines = append(lines,
		"STUDENT SUMMARY:",
		rule,
		fmt.Sprintf("Total Students: %d", studentStats.Total),
		fmt.Sprintf("Average GPA: %.2f", studentStats.AverageGPA),
		fmt.Sprintf("Minimum GPA: %.2f", studentStats.MinGPA),
		fmt.Sprintf("Maximum GPA: %.2f", studentStats.MaxGPA),
		"",
		"Status Distribution:",
	)
	for _, status := range models.StudentStatuses {
		if n := studentStats.ByStatus[status]; n > 0 {
			lines = append(lines, fmt.Sprintf("  %s: %d", status.Description(), n))
		}
	}
	lines = append(lines, "")
	if len(studentStats.ByDepartment) > 0 {
		lines = append(lines, "Department Distribution:")
		lines = append(lines, distribution(studentStats.ByDepartment)...)
		lines = append(lines, "")
	}

	courseStats := s.records.CourseStatistics()
	lines = append(lines,
		"COURSE SUMMARY:",
		rule,
		fmt.Sprintf("Total Courses: %d", courseStats.Total),
		fmt.Sprintf("Average Credits: %.1f", courseStats.AverageCredits),
		"",
		"Department Distribution:",
	)
	lines = append(lines, distribution(courseStats.ByDepartment)...)
	lines = append(lines, "", "Semester Distribution:")
	for _, semester := range models.Semesters {
		if n := courseStats.BySemester[semester]; n > 0 {
			lines = append(lines, fmt.Sprintf("  %s: %d", semester.Label(), n))
		}
	}
	lines = append(lines, "")

	debug := "OFF"
	if s.cfg.Debug {
		debug = "ON"
	}
	lines = append(lines,
		"SYSTEM CONFIGURATION:",
		rule,
		"Data Folder: "+s.cfg.Folders.Data,
		"Backup Folder: "+s.cfg.Folders.Backup,
		"Debug Mode: "+debug,
		fmt.Sprintf("Max Students per Course: %d", s.cfg.Limits.MaxStudentsPerCourse),
		fmt.Sprintf("Max Courses per Student: %d", s.cfg.Limits.MaxCoursesPerStudent),
		"",
		banner,
		"                    END OF REPORT",
		banner,
	)
	return lines
}

// FullReport writes CCRM_Report_<timestamp>.txt into the export folder.
func (s *TransferService) FullReport(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.save(s.folders.Exports, "report_txt", reportName(s.now(), "txt"), joinLines(s.BuildReport()))
	if err != nil {
		return "", err
	}
	s.logger.Info("report generated", zap.String("path", path))
	return path, nil
}

// FullReportPDF writes the same report as a PDF.
func (s *TransferService) FullReportPDF(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	payload, err := s.pdf.RenderText("Comprehensive Report", s.BuildReport())
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "render report pdf")
	}
	path, err := s.save(s.folders.Exports, "report_pdf", reportName(s.now(), "pdf"), payload)
	if err != nil {
		return "", err
	}
	s.logger.Info("report generated", zap.String("path", path))
	return path, nil
}

// Backup writes students, courses and the report into a timestamped folder
// under the backup root, followed by a manifest listing blake2b-256
// checksums of each file.
func (s *TransferService) Backup(ctx context.Context) (*BackupResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	createdAt := s.now()
	stamp := createdAt.Format(fileStampLayout)
	folder := "backup_" + stamp
	result := &BackupResult{
		ID:        uuid.NewString(),
		Folder:    s.folders.Backups.Path(folder),
		Files:     make([]string, 0, 4),
		Checksums: make(map[string]string),
		CreatedAt: createdAt,
	}

	contents := []struct {
		name string
		data []byte
	}{
		{fmt.Sprintf("students_%s.csv", stamp), csvcodec.EncodeStudents(s.records.Students())},
		{fmt.Sprintf("courses_%s.csv", stamp), csvcodec.EncodeCourses(s.records.Courses())},
		{reportName(createdAt, "txt"), joinLines(s.BuildReport())},
	}

	manifest := []string{
		"backup_id: " + result.ID,
		"created_at: " + createdAt.Format(time.RFC3339),
		fmt.Sprintf("app: %s v%s", s.cfg.AppName, s.cfg.Version),
	}
	for _, item := range contents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := s.save(s.folders.Backups, "backup", folder+"/"+item.name, item.data); err != nil {
			return nil, err
		}
		sum := checksum(item.data)
		result.Files = append(result.Files, item.name)
		result.Checksums[item.name] = sum
		manifest = append(manifest, fmt.Sprintf("%s  %s", sum, item.name))
	}
	if _, err := s.save(s.folders.Backups, "backup", folder+"/"+manifestName, joinLines(manifest)); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, manifestName)

	s.logger.Info("backup created",
		zap.String("backup_id", result.ID),
		zap.String("folder", result.Folder),
		zap.Int("files", len(result.Files)),
	)
	return result, nil
}

// PruneBackups removes backup files older than ttl.
func (s *TransferService) PruneBackups(ctx context.Context, ttl time.Duration) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	removed, err := s.folders.Backups.CleanupOlderThan(ttl)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "prune backups")
	}
	if len(removed) > 0 {
		s.logger.Info("backups pruned", zap.Int("files", len(removed)))
	}
	return removed, nil
}

// ListImportFiles lists the CSV files waiting in the import folder.
func (s *TransferService) ListImportFiles() ([]storage.FileInfo, error) {
	files, err := s.folders.Imports.List(".csv")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "list import files")
	}
	return files, nil
}

// ListExportFiles lists every regular file in the export folder.
func (s *TransferService) ListExportFiles() ([]storage.FileInfo, error) {
	files, err := s.folders.Exports.List()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "list export files")
	}
	return files, nil
}

// WriteSampleImports writes sample student and course files into the import
// folder and returns their paths.
func (s *TransferService) WriteSampleImports(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	samples := []struct {
		name   string
		header string
		lines  []string
	}{
		{SampleStudentsFile, csvcodec.StudentImportHeader, sampleStudentLines},
		{SampleCoursesFile, csvcodec.CourseImportHeader, sampleCourseLines},
	}
	paths := make([]string, 0, len(samples))
	for _, sample := range samples {
		data := joinLines(append([]string{sample.header}, sample.lines...))
		path, err := s.save(s.folders.Imports, "sample", sample.name, data)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	s.logger.Info("sample import files written", zap.Strings("paths", paths))
	return paths, nil
}

func (s *TransferService) readImport(ctx context.Context, filename string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.folders.Imports.Read(filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrImportSource.Code, fmt.Sprintf("cannot read import file %s", filename))
	}
	return data, nil
}

func (s *TransferService) reportImport(entity, filename string, result *csvcodec.ImportResult) {
	s.metrics.RecordImportRows(entity, result.Successful, result.Failed())
	for _, rowErr := range result.Errors {
		s.logger.Warn("import row rejected",
			zap.String("batch_id", result.BatchID),
			zap.Int("line", rowErr.LineNumber),
			zap.String("message", rowErr.Message),
		)
	}
	s.logger.Info("import finished",
		zap.String("entity", entity),
		zap.String("file", filename),
		zap.String("batch_id", result.BatchID),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed()),
	)
}

func (s *TransferService) save(dst fileStorage, kind, filename string, data []byte) (string, error) {
	started := time.Now()
	rel, err := dst.Save(filename, data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, fmt.Sprintf("write %s", filename))
	}
	s.metrics.ObserveFileWrite(kind, time.Since(started))
	return dst.Path(rel), nil
}

func distribution(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, fmt.Sprintf("  %s: %d", key, counts[key]))
	}
	return out
}

func reportName(at time.Time, ext string) string {
	return fmt.Sprintf("CCRM_Report_%s.%s", at.Format(fileStampLayout), ext)
}

func joinLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

func checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
