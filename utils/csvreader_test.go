package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	csvData := `Employee Name,Employee Code,Job Code
"Reyes, Dana",E7,J100

Kim,E9,J200`

	got, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	want := [][]string{
		{"Employee Name", "Employee Code", "Job Code"},
		{"Reyes, Dana", "E7", "J100"},
		{"Kim", "E9", "J200"},
	}
	assert.Equal(t, want, got)
}

func TestFormatCSV(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected string
	}{
		{
			name:     "Plain fields",
			rows:     [][]string{{"a", "b"}, {"c", ""}},
			expected: "a,b\nc,",
		},
		{
			name:     "Comma quote and newline",
			rows:     [][]string{{"x,y", `say "hi"`, "two\nlines"}},
			expected: "\"x,y\",\"say \"\"hi\"\"\",\"two\nlines\"",
		},
		{
			name:     "Blank row",
			rows:     [][]string{{"h1", "h2"}, {"", ""}},
			expected: "h1,h2\n,",
		},
		{
			name:     "Leading space stays bare",
			rows:     [][]string{{" Dana", `\.`}},
			expected: " Dana,\\.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCSV(tt.rows))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
		ok       bool
	}{
		{name: "Date only", in: "2024-02-04", expected: "2/4/2024", ok: true},
		{name: "Timestamp keeps its date", in: "2024-02-04T23:30:00-05:00", expected: "2/4/2024", ok: true},
		{name: "Padded", in: " 2024-12-29 ", expected: "12/29/2024", ok: true},
		{name: "Garbage", in: "not-a-date", ok: false},
		{name: "Empty", in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, FormatUSDate(got))
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "J1", OrDefault("  J1 ", "-"))
	assert.Equal(t, "-", OrDefault("   ", "-"))
	assert.Equal(t, 0, Deref[int](nil))
	assert.Equal(t, 3, Deref(Ptr(3)))
}
