package expense

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/zombor/hisaab-dost/internal/extraction"
	"github.com/zombor/hisaab-dost/internal/scanning"
)

// maxUploadSize covers high-resolution phone photos
const maxUploadSize = int64(50 << 20)

// maxTextSize bounds JSON bodies carrying receipt text
const maxTextSize = int64(1 << 20)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalid),
		errors.Is(err, scanning.ErrUnreadableImage),
		errors.Is(err, scanning.ErrEmptyTranscript):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoScanner):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeServiceError reports client errors verbatim and hides server-side details
func writeServiceError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		writeError(w, code, "Internal server error")
		return
	}
	writeError(w, code, err.Error())
}

type receiptResponse struct {
	Receipt  *Receipt   `json:"receipt"`
	Expenses []*Expense `json:"expenses"`
}

// contentTypeFor guesses the MIME type from the extension when the client sent none
func contentTypeFor(header string, filename string) string {
	if ct := strings.ToLower(strings.TrimSpace(header)); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return "application/octet-stream"
}

// handleUploadReceipt handles receipt upload and scanning
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large. Maximum size is 50MB. Please compress or resize your image.")
			return
		}
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, http.StatusBadRequest, "No file was selected. Please choose a file to upload.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	contentType := contentTypeFor(header.Header.Get("Content-Type"), header.Filename)

	receipt, expenses, err := s.service.ScanReceipt(r.Context(), header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, receiptResponse{Receipt: receipt, Expenses: expenses})
}

// handleExtract runs the extraction pipeline over posted text
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTextSize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, s.service.ExtractText(req.Text))
}

// handleCreateExpenses extracts and saves expenses from posted text
func (s *Server) handleCreateExpenses(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text  string             `json:"text"`
		Total *extraction.Amount `json:"total,omitempty"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTextSize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, expenses, err := s.service.CreateFromText(req.Text, req.Total)
	if err != nil {
		slog.Error("Error creating expenses", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, receiptResponse{Receipt: receipt, Expenses: expenses})
}

// handleListReceipts returns all receipts
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.service.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// handleGetReceipt returns a receipt with its expenses
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, expenses, err := s.service.GetReceipt(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), "Receipt not found")
		return
	}
	writeJSON(w, http.StatusOK, receiptResponse{Receipt: receipt, Expenses: expenses})
}

// handleGetReceiptFile returns the uploaded file for a receipt
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetReceiptFile(r.PathValue("id"))
	if err != nil {
		code := statusFor(err)
		if code == http.StatusNotFound {
			writeError(w, code, "File not found")
			return
		}
		slog.Error("Error reading receipt file", "receipt_id", r.PathValue("id"), "error", err)
		writeError(w, code, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteReceipt deletes a receipt and its expenses
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteReceipt(r.PathValue("id")); err != nil {
		slog.Error("Error deleting receipt", "error", err)
		writeError(w, statusFor(err), "Error deleting receipt")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseFilter reads from, to and category query parameters
func parseFilter(r *http.Request) (Filter, error) {
	var f Filter
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return f, fmt.Errorf("invalid %s date %q: expected YYYY-MM-DD", p.name, v)
		}
		*p.dst = &t
	}

	if v := q.Get("category"); v != "" {
		c, err := extraction.ParseCategory(v)
		if err != nil {
			return f, err
		}
		f.Category = c
	}
	return f, nil
}

// handleListExpenses returns expenses matching the query filter
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.service.ListExpenses(filter)
	if err != nil {
		slog.Error("Error listing expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// handleGetExpense returns a single expense
func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.service.GetExpense(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), "Expense not found")
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// handleUpdateExpense applies a user correction
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var u Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTextSize)).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, err := s.service.UpdateExpense(r.PathValue("id"), u)
	if err != nil {
		slog.Error("Error updating expense", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// handleDeleteExpense deletes a single expense
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteExpense(r.PathValue("id")); err != nil {
		slog.Error("Error deleting expense", "error", err)
		writeError(w, statusFor(err), "Error deleting expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, contentType, filename string, export func(Filter) ([]byte, error)) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := export(filter)
	if err != nil {
		slog.Error("Error exporting expenses", "format", filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}

// handleExportCSV streams expenses as CSV
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "text/csv; charset=utf-8", "expenses.csv", s.service.ExportCSV)
}

// handleExportXLSX streams expenses as an XLSX workbook
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "expenses.xlsx", s.service.ExportXLSX)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
