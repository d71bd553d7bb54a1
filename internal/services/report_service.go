package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"moaqeb-backend/internal/ledger"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/repositories"
	"moaqeb-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
)

// ReportService produces bank statements and export documents
type ReportService struct {
	Accounts *repositories.AccountRepository
	Txns     *repositories.TransactionRepository
	Expenses *repositories.ExpenseRepository
	Settle   *repositories.SettlementRepository
}

func NewReportService(accounts *repositories.AccountRepository, txns *repositories.TransactionRepository, expenses *repositories.ExpenseRepository, settle *repositories.SettlementRepository) *ReportService {
	return &ReportService{Accounts: accounts, Txns: txns, Expenses: expenses, Settle: settle}
}

// Statement reconstructs one bank account's statement from the rows
// that touched it. Nothing is persisted for this; the lines are derived
// on every request.
func (s *ReportService) Statement(ctx context.Context, officeID, accountID int) ([]ledger.StatementLine, error) {
	if _, err := s.Accounts.Get(ctx, officeID, accountID); err != nil {
		return nil, err
	}
	txns, err := s.Txns.List(ctx, officeID, nil)
	if err != nil {
		return nil, err
	}
	expenses, err := s.Expenses.List(ctx, officeID, nil)
	if err != nil {
		return nil, err
	}
	transfers, err := s.Settle.ListTransfers(ctx, officeID)
	if err != nil {
		return nil, err
	}
	return ledger.BuildStatement(accountID, txns, expenses, transfers), nil
}

// StatementCSV renders a statement as CSV for spreadsheet import
func (s *ReportService) StatementCSV(ctx context.Context, officeID, accountID int) ([]byte, error) {
	lines, err := s.Statement(ctx, officeID, accountID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"date", "kind", "description", "credit", "debit", "running_balance"})
	for _, l := range lines {
		w.Write([]string{
			timeutil.ToKSA(l.Date).Format(timeutil.DateTimeLayout),
			l.Kind,
			l.Description,
			strconv.FormatFloat(l.Credit, 'f', 2, 64),
			strconv.FormatFloat(l.Debit, 'f', 2, 64),
			strconv.FormatFloat(l.RunningBalance, 'f', 2, 64),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// TransferReceiptPDF renders an agent settlement receipt. Core fonts
// only carry Latin glyphs, so names render in the workbook export and
// the PDF sticks to ids, counts and amounts.
func (s *ReportService) TransferReceiptPDF(rec *models.AgentTransferRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Agent Settlement Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Settlement Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Receipt No: %d", rec.ID), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Agent ID: %d", rec.AgentID), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Transactions Settled: %d", rec.TransactionCount), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", timeutil.ToKSA(rec.CreatedAt).Format("02-Jan-2006")), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(200, 255, 200)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 12, fmt.Sprintf("Amount Paid: SAR %.2f", rec.Amount), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OfficeWorkbook exports the office's transactions and expenses as an
// xlsx workbook, one sheet per collection.
func (s *ReportService) OfficeWorkbook(ctx context.Context, officeID int) ([]byte, error) {
	txns, err := s.Txns.List(ctx, officeID, nil)
	if err != nil {
		return nil, err
	}
	expenses, err := s.Expenses.List(ctx, officeID, nil)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const txSheet = "Transactions"
	f.SetSheetName(f.GetSheetName(0), txSheet)
	headers := []string{"Serial", "Type", "Client", "Agent", "Client Price", "Agent Price", "Bank", "Status", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(txSheet, cell, h)
	}
	for r, t := range txns {
		row := []interface{}{
			t.SerialNo, t.Type, t.ClientName, t.AgentName,
			t.ClientPrice, t.AgentPrice, t.BankName, string(t.Status),
			timeutil.ToKSA(t.CreatedAt).Format(timeutil.DateTimeLayout),
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(txSheet, cell, v)
		}
	}

	const expSheet = "Expenses"
	if _, err := f.NewSheet(expSheet); err != nil {
		return nil, err
	}
	expHeaders := []string{"Title", "Amount", "Bank", "Category", "Period Start", "Period End", "Created"}
	for i, h := range expHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(expSheet, cell, h)
	}
	for r, e := range expenses {
		periodStart, periodEnd := "", ""
		if e.PeriodStart != nil {
			periodStart = e.PeriodStart.Format(timeutil.DateLayout)
		}
		if e.PeriodEnd != nil {
			periodEnd = e.PeriodEnd.Format(timeutil.DateLayout)
		}
		row := []interface{}{
			e.Title, e.Amount, e.BankName, string(e.Category), periodStart, periodEnd,
			timeutil.ToKSA(e.CreatedAt).Format(timeutil.DateTimeLayout),
		}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(expSheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
