package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/bank-statement-extractor/internal/flags"
	"github.com/insightdelivered/bank-statement-extractor/internal/statement"
)

const statementText = `STATE BANK OF INDIA
Account No: 12345678901
Account Statement
01/04/2023 RTGS FROM COAL INDIA 75,000.00 1,75,000.00` + PageBreak + `02/04/2023 DD ISSUED 15,000.00 0.00 1,60,000.00
TO PRABHAT`

func setupTestApp() *fiber.App {
	app := fiber.New()
	svc := statement.New(flags.NewDefault(), zerolog.Nop())
	NewHandler(svc, zerolog.Nop(), "test").RegisterRoutes(app)
	return app
}

func multipartRequest(t *testing.T, fields map[string]string, fileName string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) ExtractResponse {
	t.Helper()
	body, _ := io.ReadAll(resp.Body)
	var result ExtractResponse
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response %q: %v", body, err)
	}
	return result
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}
	if result["engine"] != "fiber" {
		t.Errorf("expected engine=fiber, got %q", result["engine"])
	}
	if result["version"] != "test" {
		t.Errorf("expected version=test, got %q", result["version"])
	}
}

func TestExtractEndpointRequiresInput(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, nil, "", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for missing file, got %d", resp.StatusCode)
	}
	if result := decode(t, resp); result.Success || result.Error == "" {
		t.Errorf("expected an error response, got %+v", result)
	}
}

func TestExtractEndpointRejectsNonPDF(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, nil, "statement.txt", []byte("hello")))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtractEndpointUnreadablePDF(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, nil, "scan.pdf", []byte("not really a pdf")), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", resp.StatusCode)
	}
}

func TestExtractEndpointGarbageText(t *testing.T) {
	app := setupTestApp()

	fields := map[string]string{"extractedText": "short"}
	resp, err := app.Test(multipartRequest(t, fields, "", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", resp.StatusCode)
	}
}

func TestExtractEndpointWithText(t *testing.T) {
	app := setupTestApp()

	fields := map[string]string{"extractedText": statementText}
	resp, err := app.Test(multipartRequest(t, fields, "", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	result := decode(t, resp)
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Count != 2 || len(result.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", result.Count)
	}
	if result.Account == nil || result.Account.AccountNumber != "12345678901" {
		t.Errorf("unexpected account %+v", result.Account)
	}
	if got := result.Transactions[1].Description; got != "DD ISSUED 15,000.00 0.00 1,60,000.00 TO PRABHAT" {
		t.Errorf("description: got %q", got)
	}
	want := flags.Summary{LargeWithdrawals: 1, LargeDeposits: 1, EntityMatches: 2}
	if result.Flags != want {
		t.Errorf("flags: got %+v, want %+v", result.Flags, want)
	}
	if result.Diagnostics == nil || result.Diagnostics.Strategy != "text" {
		t.Errorf("expected text strategy, got %+v", result.Diagnostics)
	}
	if !result.TotalWithdrawal.Equal(result.Transactions[1].Withdrawal.Decimal) {
		t.Errorf("totalWithdrawal: got %s", result.TotalWithdrawal)
	}
	if !strings.HasPrefix(result.CSV, "transaction_date,") {
		t.Errorf("expected CSV with header, got %q", result.CSV)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := setupTestApp()

	fields := map[string]string{"extractedText": statementText}
	if _, err := app.Test(multipartRequest(t, fields, "", nil)); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `statement_extractions_total{strategy="text"} 1`) {
		t.Errorf("expected strategy counter in metrics, got:\n%s", body)
	}
	if !strings.Contains(string(body), "statement_transactions_total 2") {
		t.Errorf("expected transaction counter in metrics")
	}
}

func TestSplitPages(t *testing.T) {
	pages := splitPages("page one" + PageBreak + "  " + PageBreak + "page two\n")
	if len(pages) != 2 || pages[0] != "page one" || pages[1] != "page two" {
		t.Errorf("got %q", pages)
	}
	if splitPages("   ") != nil {
		t.Error("expected nil for blank text")
	}
}
