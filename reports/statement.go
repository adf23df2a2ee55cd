package reports

import (
	"bytes"
	"fmt"
	"time"

	"fundbridge/models"

	"github.com/jung-kurt/gofpdf"
)

// Statement is everything printed on an investor statement
type Statement struct {
	Investor    *models.UserProfile
	Portfolio   *models.Portfolio
	Payouts     []*models.InvestorPayout
	PitchTitles map[int64]string
	GeneratedAt time.Time
}

type column struct {
	header string
	width  float64
	align  string
}

var holdingColumns = []column{
	{"Pitch", 52, "L"},
	{"Status", 22, "C"},
	{"Invested", 30, "R"},
	{"Returns", 30, "R"},
	{"ROI %", 20, "R"},
	{"Share %", 20, "R"},
	{"Count", 16, "C"},
}

var payoutColumns = []column{
	{"Date", 30, "C"},
	{"Pitch", 80, "L"},
	{"Shares", 40, "R"},
	{"Amount", 30, "R"},
}

// RenderStatementPDF renders the statement as an A4 PDF document
func RenderStatementPDF(statement *Statement) ([]byte, error) {
	if statement == nil || statement.Portfolio == nil || statement.Investor == nil {
		return nil, fmt.Errorf("statement requires an investor and a portfolio")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Investor Statement", true)
	pdf.SetAuthor("fundbridge", true)
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Investor Statement", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Investor: %s (%s)", statement.Investor.DisplayName, statement.Investor.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Generated: %s", statement.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Wallet balance: %s", FormatCents(statement.Investor.Balance)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Totals
	portfolio := statement.Portfolio
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total invested: %s", FormatCents(portfolio.TotalInvested)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Total returns: %s", FormatCents(portfolio.TotalReturns)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Return on investment: %s%%", portfolio.ROI.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Holdings table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Holdings", "", 1, "L", false, 0, "")
	writeHeader(pdf, holdingColumns)
	pdf.SetFont("Arial", "", 10)
	if len(portfolio.Holdings) == 0 {
		pdf.CellFormat(totalWidth(holdingColumns), 8, "No investments yet", "1", 1, "C", false, 0, "")
	}
	for _, holding := range portfolio.Holdings {
		writeRow(pdf, holdingColumns, []string{
			truncate(pdf, holding.PitchTitle, holdingColumns[0].width),
			string(holding.PitchStatus),
			FormatCents(holding.Invested),
			FormatCents(holding.Returns),
			holding.ROI.StringFixed(2),
			holding.SharePercent.StringFixed(2),
			fmt.Sprintf("%d", holding.InvestmentCount),
		})
	}
	pdf.Ln(6)

	// Payout history
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Payouts", "", 1, "L", false, 0, "")
	writeHeader(pdf, payoutColumns)
	pdf.SetFont("Arial", "", 10)
	if len(statement.Payouts) == 0 {
		pdf.CellFormat(totalWidth(payoutColumns), 8, "No payouts yet", "1", 1, "C", false, 0, "")
	}
	for _, payout := range statement.Payouts {
		title := statement.PitchTitles[payout.PitchID]
		if title == "" {
			title = fmt.Sprintf("Pitch #%d", payout.PitchID)
		}
		writeRow(pdf, payoutColumns, []string{
			payout.CreatedAt.UTC().Format("2006-01-02"),
			truncate(pdf, title, payoutColumns[1].width),
			payout.Shares.StringFixed(2),
			FormatCents(payout.Amount),
		})
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf, columns []column) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 240)
	for i, col := range columns {
		ln := 0
		if i == len(columns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 8, col.header, "1", ln, "C", true, 0, "")
	}
}

func writeRow(pdf *gofpdf.Fpdf, columns []column, values []string) {
	for i, col := range columns {
		ln := 0
		if i == len(columns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 8, values[i], "1", ln, col.align, false, 0, "")
	}
}

func totalWidth(columns []column) float64 {
	var width float64
	for _, col := range columns {
		width += col.width
	}
	return width
}

// truncate shortens text to fit a cell of the given width
func truncate(pdf *gofpdf.Fpdf, text string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
