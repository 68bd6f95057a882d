package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "classpulse/internal/errors"
)

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 5, displayWidth("RANK "))
	assert.Equal(t, 7, displayWidth("高一1班"))
	assert.Equal(t, 4, displayWidth("９月"))
}

func TestTableAlignsWideRunes(t *testing.T) {
	tbl := newTable("CLASS", "SCORE")
	tbl.add("高一1班", "90")
	tbl.add("A", "85")

	var buf bytes.Buffer
	require.NoError(t, tbl.write(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	// Every second column starts at the same display offset.
	offset := func(line string) int {
		idx := strings.LastIndex(line, "  ")
		return displayWidth(line[:idx+2])
	}
	assert.Equal(t, offset(lines[0]), offset(lines[1]))
	assert.Equal(t, offset(lines[1]), offset(lines[2]))
}

func TestOutputFormatter_Fail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"validation", apperrors.NewValidationError("at least 2 periods are required"), "VALIDATION", ExitCommandError},
		{"unknown period", apperrors.NewUnknownPeriodError("13月"), "UNKNOWN_PERIOD", ExitCommandError},
		{"missing column", apperrors.NewMissingColumnError("entity", []string{"班级"}), "MISSING_COLUMN", ExitCommandError},
		{"wrapped", fmt.Errorf("load: %w", apperrors.NewDataUnavailableError("no period files could be loaded", nil)), "DATA_UNAVAILABLE", ExitCommandError},
		{"plain", errors.New("disk full"), "INTERNAL", ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := &OutputFormatter{Format: "json", Writer: &buf}

			err := f.Fail(tt.err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.ErrorIs(t, err, tt.err)

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestOutputFormatter_Success(t *testing.T) {
	var buf bytes.Buffer
	text := func(w io.Writer) error {
		_, err := io.WriteString(w, "plain\n")
		return err
	}

	f := &OutputFormatter{Format: "text", Writer: &buf}
	require.NoError(t, f.Success(map[string]int{"n": 1}, text))
	assert.Equal(t, "plain\n", buf.String())

	buf.Reset()
	f.Format = "json"
	require.NoError(t, f.Success(map[string]int{"n": 1}, text))
	assert.JSONEq(t, `{"status":"ok","data":{"n":1}}`, buf.String())
}
