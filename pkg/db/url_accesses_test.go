package db

import (
	"testing"
)

type fetchAttempt struct {
	url       string
	status    int
	errorType string
	success   bool
}

func recordAttempts(t *testing.T, db *DB, attempts []fetchAttempt) map[string]int64 {
	t.Helper()
	ids := make(map[string]int64)
	for _, a := range attempts {
		urlID, err := db.InsertURL(a.url)
		if err != nil {
			t.Fatalf("InsertURL(%s) failed: %v", a.url, err)
		}
		if err := db.RecordAccess(urlID, a.status, a.errorType, a.success); err != nil {
			t.Fatalf("RecordAccess(%s) failed: %v", a.url, err)
		}
		ids[a.url] = urlID
	}
	return ids
}

// The last attempt per URL is what `db access` reports.
func TestGetLastAccess_CaptureHistory(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	const (
		page  = "https://shop.example.com/products"
		sheet = "https://shop.example.com/site.css"
		font  = "https://fonts.example.com/inter.css"
	)
	ids := recordAttempts(t, db, []fetchAttempt{
		{url: page, status: 503, errorType: "fetch_error"},
		{url: sheet, status: 200, success: true},
		{url: page, status: 200, success: true},
		{url: font, status: 0, errorType: "timeout"},
		{url: sheet, status: 404, errorType: "fetch_error"},
	})

	tests := []struct {
		url           string
		wantStatus    int
		wantErrorType string
		wantSuccess   bool
	}{
		{url: page, wantStatus: 200, wantSuccess: true},
		{url: sheet, wantStatus: 404, wantErrorType: "fetch_error"},
		{url: font, wantStatus: 0, wantErrorType: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			record, err := db.GetLastAccess(ids[tt.url])
			if err != nil {
				t.Fatalf("GetLastAccess() failed: %v", err)
			}
			if record == nil {
				t.Fatal("GetLastAccess() returned nil")
			}
			if record.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", record.StatusCode, tt.wantStatus)
			}
			if record.ErrorType != tt.wantErrorType {
				t.Errorf("ErrorType = %q, want %q", record.ErrorType, tt.wantErrorType)
			}
			if record.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", record.Success, tt.wantSuccess)
			}
			if record.AccessedAt.IsZero() {
				t.Error("AccessedAt should be set")
			}
		})
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM url_accesses").Scan(&total); err != nil {
		t.Fatalf("failed to count accesses: %v", err)
	}
	if total != 5 {
		t.Errorf("url_accesses rows = %d, want 5", total)
	}
}

// A URL can be recorded before any fetch attempt is logged for it.
func TestGetLastAccess_NeverFetched(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	urlID, err := db.InsertURL("https://shop.example.com/offline")
	if err != nil {
		t.Fatalf("InsertURL() failed: %v", err)
	}

	record, err := db.GetLastAccess(urlID)
	if err != nil {
		t.Fatalf("GetLastAccess() failed: %v", err)
	}
	if record != nil {
		t.Errorf("GetLastAccess() = %+v, want nil", record)
	}
}
