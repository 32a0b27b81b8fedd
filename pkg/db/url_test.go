package db

import (
	"testing"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

// Captures fetch both the page and its linked stylesheets; each gets a row.
func TestInsertURL_CaptureSources(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tests := []struct {
		name          string
		url           string
		wantCanonical string
		wantDomain    string
		wantParams    int
	}{
		{
			name:          "page with selector fragment",
			url:           "https://shop.example.com/products#grid",
			wantCanonical: "https://shop.example.com/products",
			wantDomain:    "shop.example.com",
		},
		{
			name:          "page with tracking query",
			url:           "https://shop.example.com/products?utm_source=mail&page=2",
			wantCanonical: "https://shop.example.com/products",
			wantDomain:    "shop.example.com",
			wantParams:    2,
		},
		{
			name:          "fingerprinted stylesheet",
			url:           "https://cdn.example.com/assets/site.css?v=3",
			wantCanonical: "https://cdn.example.com/assets/site.css",
			wantDomain:    "cdn.example.com",
			wantParams:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urlID, err := db.InsertURL(tt.url)
			if err != nil {
				t.Fatalf("InsertURL() failed: %v", err)
			}

			var canonical, domain string
			err = db.QueryRow("SELECT canonical_url, domain FROM urls WHERE url_id = ?", urlID).Scan(&canonical, &domain)
			if err != nil {
				t.Fatalf("failed to query URL: %v", err)
			}
			if canonical != tt.wantCanonical {
				t.Errorf("canonical_url = %q, want %q", canonical, tt.wantCanonical)
			}
			if domain != tt.wantDomain {
				t.Errorf("domain = %q, want %q", domain, tt.wantDomain)
			}

			var params int
			if err := db.QueryRow("SELECT COUNT(*) FROM url_query_params WHERE url_id = ?", urlID).Scan(&params); err != nil {
				t.Fatalf("failed to count query params: %v", err)
			}
			if params != tt.wantParams {
				t.Errorf("query params = %d, want %d", params, tt.wantParams)
			}
		})
	}
}

// A page captured twice (new selector, or a re-run) keeps one url row.
func TestInsertURL_RepeatedCapture(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := db.InsertURL("https://shop.example.com/products")
	if err != nil {
		t.Fatalf("InsertURL() failed: %v", err)
	}
	second, err := db.InsertURL("https://shop.example.com/products")
	if err != nil {
		t.Fatalf("InsertURL() failed: %v", err)
	}
	if first != second {
		t.Errorf("repeated capture got url_id %d, want %d", second, first)
	}

	other, err := db.InsertURL("https://shop.example.com/products?page=2")
	if err != nil {
		t.Fatalf("InsertURL() failed: %v", err)
	}
	if other == first {
		t.Error("a different query string must get its own url_id")
	}
}

func TestGetURLID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	want, err := db.InsertURL("https://shop.example.com/style.css")
	if err != nil {
		t.Fatalf("InsertURL() failed: %v", err)
	}

	got, err := db.GetURLID("https://shop.example.com/style.css")
	if err != nil {
		t.Fatalf("GetURLID() failed: %v", err)
	}
	if got != want {
		t.Errorf("GetURLID() = %d, want %d", got, want)
	}

	if _, err := db.GetURLID("https://never-captured.example.com"); err == nil {
		t.Error("GetURLID() for an unknown URL should fail")
	}
}
