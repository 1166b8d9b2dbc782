package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adifathi/planner/planner-backend/internal/config"
	"github.com/adifathi/planner/planner-backend/internal/domain"
	"github.com/adifathi/planner/planner-backend/internal/util"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportView selects which dashboard view is exported
type ExportView string

const (
	ExportReport ExportView = "report"
	ExportChart  ExportView = "chart"
)

// ExportFormat is the output document format
type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatPDF  ExportFormat = "pdf"
)

const (
	reportSheet      = "Laporan"
	noAnalysisText   = "Tidak ada data untuk dianalisis."
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType   = "application/pdf"
	currencyNumFmt   = `"Rp"#,##0`
	signatureColumn  = "E"
	chartColumnWidth = 120
)

// ExportRequest describes one export
type ExportRequest struct {
	Year   int
	Month  int // 1-12, or 0 for the whole year
	Filter domain.DetailFilter
	View   ExportView
	Format ExportFormat
}

// ExportFile is a rendered document ready to be downloaded
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders dashboard views as XLSX or PDF documents
type ExportService struct {
	dashboard *DashboardService
	profile   config.ReportProfile
	location  *time.Location
	now       func() time.Time
}

// NewExportService creates a new ExportService. Print dates are rendered in loc.
func NewExportService(dashboard *DashboardService, profile config.ReportProfile, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{
		dashboard: dashboard,
		profile:   profile,
		location:  loc,
		now:       time.Now,
	}
}

// Export renders the requested view of the dashboard
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	if req.Year < domain.MinYear || req.Year > domain.MaxYear || req.Month < 0 || req.Month > 12 {
		return nil, domain.ErrInvalidPeriod
	}
	if req.View != ExportReport && req.View != ExportChart {
		return nil, fmt.Errorf("%w: unknown export view %q", domain.ErrInvalidInput, req.View)
	}

	view := s.dashboard.GetDashboard(ctx, req.Year, req.Month, req.Filter)

	switch req.Format {
	case FormatXLSX:
		data, err := s.ExportXLSX(view, req.View)
		if err != nil {
			return nil, err
		}
		return &ExportFile{FileName: ExportFileName(req), ContentType: xlsxContentType, Data: data}, nil
	case FormatPDF:
		data, err := s.ExportPDF(view, req.View)
		if err != nil {
			return nil, err
		}
		return &ExportFile{FileName: ExportFileName(req), ContentType: pdfContentType, Data: data}, nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, req.Format)
	}
}

// ExportTitle returns the document title, e.g. "Laporan - Tahunan 2025" or
// "Analisis Grafik Perbandingan - Maret 2025"
func ExportTitle(year, month int, view ExportView) string {
	if view == ExportChart {
		if month == 0 {
			return fmt.Sprintf("Analisis Grafik Perbandingan - Tahunan %d", year)
		}
		return fmt.Sprintf("Analisis Grafik Perbandingan - %s %d", util.MonthName(time.Month(month)), year)
	}
	return fmt.Sprintf("Laporan - %s %d", periodPart(month), year)
}

// ExportFileName returns the download name, e.g. "Laporan_Maret_2025.xlsx"
func ExportFileName(req ExportRequest) string {
	prefix := "Laporan"
	if req.View == ExportChart {
		prefix = "Analisis_Grafik"
	}
	return fmt.Sprintf("%s_%s_%d.%s", prefix, periodPart(req.Month), req.Year, req.Format)
}

func periodPart(month int) string {
	if month == 0 {
		return "Tahunan"
	}
	return util.MonthName(time.Month(month))
}

func totalLabel(year, month int) string {
	if month == 0 {
		return fmt.Sprintf("TOTAL %d", year)
	}
	return "TOTAL " + strings.ToUpper(util.MonthName(time.Month(month)))
}

func narrativeLines(view *DashboardView) []string {
	if strings.TrimSpace(view.Narrative) == "" {
		return []string{noAnalysisText}
	}
	return strings.Split(view.Narrative, "\n")
}

func (s *ExportService) signatureLines() []string {
	printDate := util.FormatPrintDate(s.now().In(s.location))
	return []string{
		"", "",
		fmt.Sprintf("%s, %s", s.profile.City, printDate),
		"",
		"Mengetahui,",
		s.profile.SignerTitle,
		"", "", "",
		s.profile.SignerName,
	}
}

// ExportXLSX renders the view as a single-sheet workbook
func (s *ExportService) ExportXLSX(view *DashboardView, kind ExportView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	var err error
	if kind == ExportChart {
		err = s.writeChartSheet(f, view)
	} else {
		err = s.writeReportSheet(f, view)
	}
	if err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) writeReportSheet(f *excelize.File, view *DashboardView) error {
	title := ExportTitle(view.Year, view.Month, ExportReport)
	if err := f.SetCellValue(reportSheet, "A1", title); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	numFmt := currencyNumFmt
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	boldCurrency, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}

	headers := []any{"Bulan", "Jumlah Tugas", "Total Anggaran", "Total Biaya", "Selisih", "Keterangan"}
	if err := f.SetSheetRow(reportSheet, "A3", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(reportSheet, "A3", "F3", bold); err != nil {
		return err
	}

	row := 4
	for _, r := range view.Report {
		values := []any{r.Month, r.TaskCount, r.TotalBudget.IntPart(), r.TotalExpense.IntPart(), r.Variance.IntPart(), r.Label.Text()}
		if err := f.SetSheetRow(reportSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		row++
	}
	if row > 4 {
		if err := f.SetCellStyle(reportSheet, "C4", fmt.Sprintf("E%d", row-1), currency); err != nil {
			return err
		}
	}

	totals := []any{
		totalLabel(view.Year, view.Month),
		view.Totals.TaskCount,
		view.Totals.TotalBudget.IntPart(),
		view.Totals.TotalExpense.IntPart(),
		view.Totals.Variance.IntPart(),
		"",
	}
	totalCell := fmt.Sprintf("A%d", row)
	if err := f.SetSheetRow(reportSheet, totalCell, &totals); err != nil {
		return err
	}
	if err := f.SetCellStyle(reportSheet, totalCell, fmt.Sprintf("F%d", row), bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(reportSheet, fmt.Sprintf("C%d", row), fmt.Sprintf("E%d", row), boldCurrency); err != nil {
		return err
	}
	row++

	for _, line := range s.signatureLines() {
		if line != "" {
			if err := f.SetCellValue(reportSheet, fmt.Sprintf("%s%d", signatureColumn, row), line); err != nil {
				return err
			}
		}
		row++
	}

	widths := []float64{15, 15, 20, 20, 20, 20}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(reportSheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) writeChartSheet(f *excelize.File, view *DashboardView) error {
	if err := f.SetCellValue(reportSheet, "A1", ExportTitle(view.Year, view.Month, ExportChart)); err != nil {
		return err
	}
	row := 3
	for _, line := range narrativeLines(view) {
		if err := f.SetCellValue(reportSheet, fmt.Sprintf("A%d", row), line); err != nil {
			return err
		}
		row++
	}
	return f.SetColWidth(reportSheet, "A", "A", chartColumnWidth)
}

// ExportPDF renders the view as an A4 document
func (s *ExportService) ExportPDF(view *DashboardView, kind ExportView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(ExportTitle(view.Year, view.Month, kind), true)
	pdf.AddPage()

	if s.profile.Organization != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, tr(s.profile.Organization), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(ExportTitle(view.Year, view.Month, kind)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if kind == ExportChart {
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range narrativeLines(view) {
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	} else {
		s.writeReportTable(pdf, tr, view)
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range s.signatureLines() {
		pdf.CellFormat(0, 5, tr(line), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) writeReportTable(pdf *gofpdf.Fpdf, tr func(string) string, view *DashboardView) {
	widths := []float64{25, 22, 34, 34, 34, 31}
	headers := []string{"Bulan", "Jumlah Tugas", "Total Anggaran", "Total Biaya", "Selisih", "Keterangan"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range view.Report {
		cells := []string{
			r.Month,
			fmt.Sprintf("%d", r.TaskCount),
			FormatCurrency(r.TotalBudget),
			FormatCurrency(r.TotalExpense),
			FormatCurrency(r.Variance),
			r.Label.Text(),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 || i == 5 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 9)
	totals := []string{
		totalLabel(view.Year, view.Month),
		fmt.Sprintf("%d", view.Totals.TaskCount),
		FormatCurrency(view.Totals.TotalBudget),
		FormatCurrency(view.Totals.TotalExpense),
		FormatCurrency(view.Totals.Variance),
		"",
	}
	for i, c := range totals {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, tr(c), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
