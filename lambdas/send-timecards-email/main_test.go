package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack.com/jobtrack/utils"
)

func TestSendEventValidate(t *testing.T) {
	valid := SendEvent{Tenant: "acme", JobID: "job-1", WeekStart: "2024-02-04"}
	require.NoError(t, valid.Validate())

	err := SendEvent{WeekStart: "next week"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant is required")
	assert.Contains(t, err.Error(), "jobId is required")
	assert.Contains(t, err.Error(), `weekStart "next week" is not a date`)
}

func TestSendEventRequest(t *testing.T) {
	tests := []struct {
		name      string
		event     SendEvent
		attachCSV bool
		attachPDF bool
	}{
		{"defaults attach both", SendEvent{}, true, true},
		{"pdf off", SendEvent{AttachPDF: utils.Ptr(false)}, true, false},
		{"csv off", SendEvent{AttachCSV: utils.Ptr(false), AttachPDF: utils.Ptr(true)}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.event.Request()
			assert.Equal(t, tt.attachCSV, req.AttachCSV)
			assert.Equal(t, tt.attachPDF, req.AttachPDF)
		})
	}
}

func TestReadEvent(t *testing.T) {
	raw := `{"tenant":"acme","env":"prod","jobId":"job-1","weekStart":"2024-02-04","to":["payroll@acme.test"],"attachPdf":false}`

	fromStdin, err := readEvent(nil, strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "acme", fromStdin.Tenant)
	assert.Equal(t, "prod", fromStdin.Env)
	assert.Equal(t, []string{"payroll@acme.test"}, fromStdin.To)
	assert.False(t, fromStdin.Request().AttachPDF)

	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	fromFile, err := readEvent([]string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, fromStdin, fromFile)

	_, err = readEvent(nil, strings.NewReader("{"))
	assert.ErrorContains(t, err, "decode event")
}
