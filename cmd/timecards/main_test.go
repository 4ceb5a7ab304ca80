package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack.com/jobtrack/infrastructure/mail"
)

const dump = `[
	{"id": "tc-1", "employeeName": "Dana Reyes", "employeeId": "E-7",
	 "jobs": [{"jobNumber": "J100", "acct": "100",
	           "days": [{"dayOfWeek": 1, "hours": 8, "production": 40, "unitCost": 2}]}]},
	{"id": "tc-2", "employeeName": "Kim Lee", "employeeCode": "K-1",
	 "lines": [{"jobNumber": "J100", "tue": 4}]}
]`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()

	path, err := run(t, dump, "export", "--week-start", "2024-02-04", "--job-code", "J100", "--out", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-02-10 J100.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Dana Reyes,E-7,J100,2/5/2024,,100,,8,40,,", lines[2])
	assert.Equal(t, "Kim Lee,K-1,J100,2/6/2024,,,,4,,,", lines[3])
}

func TestExportCommandFromFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "dump.json")
	require.NoError(t, os.WriteFile(input, []byte(dump), 0o600))

	for _, format := range []string{"pdf", "xlsx", "html"} {
		t.Run(format, func(t *testing.T) {
			path, err := run(t, "", "export", "--input", input, "--week-start", "2024-02-04", "--job-code", "J100",
				"--format", format, "--out", dir)
			require.NoError(t, err)
			assert.Equal(t, "2024-02-10 J100."+format, filepath.Base(path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.NotZero(t, info.Size())
		})
	}
}

func TestExportCommandSingleTimecard(t *testing.T) {
	dir := t.TempDir()

	path, err := run(t, dump, "export", "--week-start", "2024-02-04", "--timecard", "tc-2", "--out", dir)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10.csv", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Dana Reyes")

	_, err = run(t, dump, "export", "--week-start", "2024-02-04", "--timecard", "tc-9", "--out", dir)
	assert.ErrorContains(t, err, "timecard not found: tc-9")
}

func TestExportCommandEML(t *testing.T) {
	dir := t.TempDir()

	path, err := run(t, dump, "export", "--week-start", "2024-02-04", "--job-code", "J100", "--job-name", "Harbor Bridge",
		"--format", "eml", "--to", "payroll@example.com", "--out", dir)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	msg, err := mail.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"payroll@example.com"}, msg.To)
	assert.Equal(t, "Timecards: Harbor Bridge (#J100), week 2/4/2024 - 2/10/2024", msg.Subject)
	assert.Contains(t, msg.HTML, "Dana Reyes")
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "2024-02-10 J100.csv", msg.Attachments[0].Filename)
	assert.Equal(t, "2024-02-10 J100.pdf", msg.Attachments[1].Filename)
	assert.True(t, bytes.HasPrefix(msg.Attachments[1].Content, []byte("%PDF-")))
}

func TestExportCommandErrors(t *testing.T) {
	_, err := run(t, dump, "export", "--week-start", "2024-02-04", "--format", "docx", "--out", t.TempDir())
	assert.ErrorContains(t, err, "unsupported export format")

	_, err = run(t, "not json", "export", "--week-start", "2024-02-04", "--out", t.TempDir())
	assert.ErrorContains(t, err, "decode timecards")

	_, err = run(t, dump, "export")
	assert.ErrorContains(t, err, `required flag(s) "week-start" not set`)
}

func TestFilenameCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"filename", "--week-start", "2024-02-04", "--job-code", "J100"}, "2024-02-10 J100.csv"},
		{[]string{"filename", "--week-start", "2024-02-04", "--ext", "pdf"}, "2024-02-10.pdf"},
		{[]string{"filename", "--job-code", "J100"}, "timecards J100.csv"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
