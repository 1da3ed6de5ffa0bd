package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/roob1e/tabularium/internal/model"
	"github.com/roob1e/tabularium/internal/promotion"
	"github.com/roob1e/tabularium/internal/repository"
)

// ── export errors ──

var (
	ErrExportNoStudents   = errors.New("no students to export")
	ErrExportNoReport     = errors.New("no successful promotion run to export")
	ErrExportGenerateFail = errors.New("failed to generate Excel file")
)

// ExportService spreadsheet downloads.
// The workbook comes back as a buffer plus a suggested file name; the handler sets headers.
type ExportService interface {
	// ExportStudents one sheet per group, students ordered by name
	ExportStudents(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportPromotion summary and moves of the latest successful run
	ExportPromotion(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo    *repository.Repository
	history *RunHistory
	logger  *zap.Logger
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, history *RunHistory, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, history: history, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportStudents
// ═══════════════════════════════════════════════════════════
//
// Sheet per group, named after the group label:
//   | ID | Full name | Age | Phone | Birthdate |

func (s *exportService) ExportStudents(ctx context.Context) (*bytes.Buffer, string, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("list students for export failed", zap.Error(err))
		return nil, "", err
	}
	if len(students) == 0 {
		return nil, "", ErrExportNoStudents
	}

	byGroup := make(map[string][]model.Student)
	for _, st := range students {
		name := fmt.Sprintf("group %d", st.GroupID)
		if st.Group != nil {
			name = st.Group.Name
		}
		byGroup[name] = append(byGroup[name], st)
	}

	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(headerStyleDef())
	used := make(map[string]bool)

	for i, name := range names {
		sheet := sheetName(name, used)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else if _, err := f.NewSheet(sheet); err != nil {
			s.logger.Error("create sheet failed", zap.String("sheet", sheet), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}

		writeRow(f, sheet, 1, "ID", "Full name", "Age", "Phone", "Birthdate")
		f.SetCellStyle(sheet, "A1", "E1", headerStyle)
		f.SetColWidth(sheet, "A", "A", 8)
		f.SetColWidth(sheet, "B", "B", 36)
		f.SetColWidth(sheet, "C", "C", 6)
		f.SetColWidth(sheet, "D", "E", 16)

		rows := byGroup[name]
		sort.SliceStable(rows, func(a, b int) bool { return rows[a].Fullname < rows[b].Fullname })
		for r, st := range rows {
			birthdate := ""
			if st.Birthdate != nil {
				birthdate = st.Birthdate.Format(birthdateLayout)
			}
			writeRow(f, sheet, r+2, st.ID, st.Fullname, st.Age, st.Phone, birthdate)
		}
	}
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write Excel failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "students.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// ExportPromotion
// ═══════════════════════════════════════════════════════════
//
// "Summary": started, finished, promoted, held, graduates, unchanged
// "Moves":   | Student ID | Student | From | To |

func (s *exportService) ExportPromotion(_ context.Context) (*bytes.Buffer, string, error) {
	report := s.history.LastReport()
	if report == nil {
		return nil, "", ErrExportNoReport
	}

	buf, err := promotionWorkbook(report)
	if err != nil {
		s.logger.Error("write promotion workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("promotion_%s.xlsx", report.FinishedAt.Format("2006-01-02")), nil
}

func promotionWorkbook(report *promotion.Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary, moves = "Summary", "Moves"
	f.SetSheetName("Sheet1", summary)
	if _, err := f.NewSheet(moves); err != nil {
		return nil, err
	}
	headerStyle, _ := f.NewStyle(headerStyleDef())

	f.SetColWidth(summary, "A", "A", 14)
	f.SetColWidth(summary, "B", "B", 28)
	summaryRows := [][2]interface{}{
		{"Started", report.StartedAt.Format("2006-01-02 15:04:05")},
		{"Finished", report.FinishedAt.Format("2006-01-02 15:04:05")},
		{"Promoted", report.Promoted},
		{"Held", report.Held},
		{"Graduates", report.Graduates},
		{"Unchanged", report.Unchanged},
	}
	for i, r := range summaryRows {
		writeRow(f, summary, i+1, r[0], r[1])
	}
	f.SetCellStyle(summary, "A1", fmt.Sprintf("A%d", len(summaryRows)), headerStyle)

	writeRow(f, moves, 1, "Student ID", "Student", "From", "To")
	f.SetCellStyle(moves, "A1", "D1", headerStyle)
	f.SetColWidth(moves, "A", "A", 12)
	f.SetColWidth(moves, "B", "B", 36)
	f.SetColWidth(moves, "C", "D", 12)
	for i, m := range report.Moves {
		writeRow(f, moves, i+2, m.StudentID, m.StudentName, m.FromGroup, m.ToGroup)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── helpers ──

func headerStyleDef() *excelize.Style {
	return &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

// sheetName Excel limits names to 31 chars, forbids : \ / ? * [ ] and compares them case-insensitively
func sheetName(label string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, label)
	if name == "" {
		name = "_"
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}

	base := name
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		r := []rune(base)
		if len(r)+len([]rune(suffix)) > 31 {
			r = r[:31-len([]rune(suffix))]
		}
		name = string(r) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}
