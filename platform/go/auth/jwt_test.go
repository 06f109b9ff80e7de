package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractJWTToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"standard bearer", "Bearer abc.def", "abc.def", true},
		{"lowercase bearer", "bearer abc.def", "abc.def", true},
		{"padded token", "Bearer   abc.def  ", "abc.def", true},
		{"missing header", "", "", false},
		{"wrong scheme", "Basic abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			got, ok := ExtractJWTToken(req)
			if ok != tt.wantOK {
				t.Fatalf("ExtractJWTToken() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractJWTToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
