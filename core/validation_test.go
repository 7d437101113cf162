package core

import (
	"net/http/httptest"
	"testing"
)

func TestContentType(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"exact match", "application/json", false},
		{"with charset", "application/json; charset=utf-8", false},
		{"with spaces", " application/json ; charset=utf-8", false},
		{"empty", "", true},
		{"wrong type", "text/plain", true},
		{"prefix only", "application/json-patch+json", true},
	}

	v := NewValidator()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", nil)
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}

			resp, err := v.ContentType(req, MimeTypeJSON)
			if tc.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				if resp.status != errorInvalidContentType.status {
					t.Errorf("expected status %d, got %d", errorInvalidContentType.status, resp.status)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
