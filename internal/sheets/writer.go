package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/billfold/billfold/internal/budget"
	"github.com/billfold/billfold/internal/common"
	"github.com/billfold/billfold/internal/report"
	"github.com/billfold/billfold/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer exports period reports to a Google Sheets spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write exports a period summary and budget evaluations to the spreadsheet,
// replacing its current contents.
func (w *Writer) Write(ctx context.Context, summary *report.Summary, evaluations []budget.Evaluation) error {
	w.logger.Info("starting report export",
		"period", string(summary.Period),
		"date_range", fmt.Sprintf("%s to %s", summary.Start.Format("2006-01-02"), summary.End.Format("2006-01-02")))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := w.prepareReportData(summary, evaluations)

	// Remote API calls are the one retried surface in the application
	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: "Report",
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareReportData lays out the export rows.
func (w *Writer) prepareReportData(summary *report.Summary, evaluations []budget.Evaluation) [][]any {
	estimatedRows := 12 + len(summary.ByCategory) + len(summary.ByMonth) + len(evaluations)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{
			"Billfold Report",
			fmt.Sprintf("%s - %s", summary.Start.Format("Jan 2, 2006"), summary.End.Format("Jan 2, 2006")),
		},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Income", summary.TotalIncome},
		[]any{"Total Expense", summary.TotalExpense},
		[]any{"Net", summary.Net},
		[]any{"Savings Rate %", summary.SavingsRate},
		[]any{},
		[]any{"Category Breakdown"},
		[]any{"Category", "Amount", "% of Expense"},
	)

	for _, cat := range summary.ByCategory {
		values = append(values, []any{cat.Name, cat.Amount, cat.Percent})
	}

	if len(summary.ByMonth) > 0 {
		values = append(values,
			[]any{},
			[]any{"Monthly Comparison"},
			[]any{"Month", "Income", "Expense"},
		)
		for _, month := range summary.ByMonth {
			values = append(values, []any{month.Month.String(), month.Income, month.Expense})
		}
	}

	if len(evaluations) > 0 {
		values = append(values,
			[]any{},
			[]any{"Budgets"},
			[]any{"Category", "Ceiling", "Spent", "%", "Status"},
		)
		for _, eval := range evaluations {
			values = append(values, []any{
				eval.Budget.CategoryID,
				eval.Budget.Amount,
				eval.Spent,
				eval.Percentage,
				string(eval.Status),
			})
		}
	}

	return values
}

// writeData writes the rows starting at A1.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	valueRange := &sheets.ValueRange{
		Range:  "A1",
		Values: values,
	}

	_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update values: %w", err)
	}
	return nil
}
