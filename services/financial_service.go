package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samape/samape/models"
	"github.com/samape/samape/repositories"
)

// FinancialService interface defines financial ledger business logic
type FinancialService interface {
	GetAll(ctx context.Context) ([]models.FinancialEntry, error)
	GetByServiceOrder(ctx context.Context, orderID int) ([]models.FinancialEntry, error)
	Create(ctx context.Context, form *models.FinancialEntryForm, createdBy *int) (*models.FinancialEntry, error)
	GetMonthlySummary(ctx context.Context, year int, month time.Month) (*models.MonthlySummary, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

// financialService implements FinancialService interface
type financialService struct {
	financialRepo repositories.FinancialRepository

	now func() time.Time
}

// NewFinancialService creates a new financial service
func NewFinancialService(financialRepo repositories.FinancialRepository) FinancialService {
	return &financialService{
		financialRepo: financialRepo,
		now:           time.Now,
	}
}

// GetAll retrieves all financial entries, newest first
func (s *financialService) GetAll(ctx context.Context) ([]models.FinancialEntry, error) {
	return s.financialRepo.GetAll(ctx)
}

// GetByServiceOrder retrieves the entries posted against one service order
func (s *financialService) GetByServiceOrder(ctx context.Context, orderID int) ([]models.FinancialEntry, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("invalid service order ID: %d", orderID)
	}
	return s.financialRepo.GetByServiceOrder(ctx, orderID)
}

// Create records a manual income or expense entry
func (s *financialService) Create(ctx context.Context, form *models.FinancialEntryForm, createdBy *int) (*models.FinancialEntry, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errs, ", "))
	}

	entryType, _ := models.ParseFinancialEntryType(form.Type)

	date := s.now().UTC()
	if form.Date != "" {
		parsed, err := models.ParseDate(form.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		date = parsed
	}

	entry := &models.FinancialEntry{
		ServiceOrderID: form.ServiceOrderID,
		Description:    strings.TrimSpace(form.Description),
		Amount:         form.Amount,
		Type:           entryType,
		Date:           date,
		CreatedBy:      createdBy,
	}

	if err := s.financialRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create financial entry: %w", err)
	}

	return entry, nil
}

// GetMonthlySummary aggregates income, expenses and balance for a month
func (s *financialService) GetMonthlySummary(ctx context.Context, year int, month time.Month) (*models.MonthlySummary, error) {
	return s.financialRepo.GetMonthlySummary(ctx, year, month)
}

// ExportCSV streams the full ledger as a CSV file, one row per entry.
// Dates use DD/MM/YYYY and amounts a plain decimal point so spreadsheets
// import them without locale surprises.
func (s *financialService) ExportCSV(ctx context.Context, w io.Writer) error {
	entries, err := s.financialRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load entries for export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Data", "Descrição", "Tipo", "Valor", "OS"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		orderRef := ""
		if entry.ServiceOrderID != nil {
			orderRef = strconv.Itoa(*entry.ServiceOrderID)
		}

		record := []string{
			strconv.FormatInt(entry.ID, 10),
			models.FormatDate(entry.Date),
			entry.Description,
			string(entry.Type),
			strconv.FormatFloat(entry.Amount, 'f', 2, 64),
			orderRef,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
