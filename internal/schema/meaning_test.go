package schema_test

import (
	"testing"

	"db-reshape/internal/schema"
)

func TestAnalyzeMeaning(t *testing.T) {
	tests := []struct {
		name, comment, want string
	}{
		{"usr_nm", "", "user name"},
		{"contactEml", "", "contact email"},
		{"mail_dt", "", "email date"},
		{"reply-to", "회신 이메일", "email"},
		{"tel_no", "휴대폰 연락처", "phone"},
		{"HTTPStatus", "", "httpstatus"},
	}
	for _, tt := range tests {
		if got := schema.AnalyzeMeaning(tt.name, tt.comment); got != tt.want {
			t.Errorf("AnalyzeMeaning(%q, %q) = %q, want %q", tt.name, tt.comment, got, tt.want)
		}
	}
}
