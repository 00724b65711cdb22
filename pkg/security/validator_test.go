package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSearchQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		expectError bool
		errorMsg    string
		expected    string
	}{
		{name: "valid empty query", query: "", expected: ""},
		{name: "valid name", query: "allen", expected: "allen"},
		{name: "valid full name", query: "Allen Raymond", expected: "Allen Raymond"},
		{name: "valid email", query: "nulla.ante@vestibul.co.uk", expected: "nulla.ante@vestibul.co.uk"},
		{name: "valid phone", query: "322-22-22", expected: "322-22-22"},
		{name: "valid international phone", query: "+1 (555) 010-9999", expected: "+1 (555) 010-9999"},
		{name: "valid apostrophe", query: "O'Connor", expected: "O'Connor"},
		{name: "keyword inside a word", query: "Executive Selectra", expected: "Executive Selectra"},
		{name: "trims spaces", query: "  chaim lewis  ", expected: "chaim lewis"},
		{
			name:        "query too long",
			query:       strings.Repeat("a", MaxSearchQueryLength+1),
			expectError: true,
			errorMsg:    "search query too long",
		},
		{
			name:        "SQL injection attempt - UNION",
			query:       "john UNION SELECT password FROM users",
			expectError: true,
			errorMsg:    "search query contains invalid characters",
		},
		{
			name:        "SQL injection attempt - OR condition",
			query:       "john OR 1=1",
			expectError: true,
			errorMsg:    "search query contains invalid characters",
		},
		{
			name:        "SQL injection attempt - comment",
			query:       "john --",
			expectError: true,
			errorMsg:    "search query contains invalid characters",
		},
		{
			name:        "SQL injection attempt - DROP",
			query:       "john; DROP TABLE contacts",
			expectError: true,
			errorMsg:    "search query contains invalid characters",
		},
		{
			name:        "SQL injection attempt - sleep",
			query:       "a sleep 5",
			expectError: true,
			errorMsg:    "search query contains invalid characters",
		},
		{
			name:        "XSS attempt",
			query:       "<script>alert('xss')</script>",
			expectError: true,
			errorMsg:    "search query contains invalid characters",
		},
		{
			name:        "invalid ampersand",
			query:       "john&doe",
			expectError: true,
			errorMsg:    "search query contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateSearchQuery(tt.query)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Empty(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestSanitizeSearchString(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{name: "empty string", query: "", expected: ""},
		{name: "normal string", query: "kennedy", expected: "kennedy"},
		{name: "percent wildcard", query: "50%", expected: `50\%`},
		{name: "underscore wildcard", query: "john_doe", expected: `john\_doe`},
		{name: "multiple wildcards", query: "%john_%", expected: `\%john\_\%`},
		{name: "backslash", query: `a\b`, expected: `a\\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeSearchString(tt.query))
		})
	}
}

func TestIsValidSearchChar(t *testing.T) {
	valid := []rune{'a', 'Z', '5', ' ', '-', '_', '.', '@', '+', '\'', '(', ')', 'é'}
	for _, c := range valid {
		assert.True(t, isValidSearchChar(c), "expected %q to be valid", c)
	}

	invalid := []rune{';', '&', '<', '>', '#', '*', '%', '='}
	for _, c := range invalid {
		assert.False(t, isValidSearchChar(c), "expected %q to be invalid", c)
	}
}

func BenchmarkValidateSearchQuery(b *testing.B) {
	query := "allen raymond 322-22-22"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ValidateSearchQuery(query)
	}
}
