package reading

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testSet(t *testing.T) Set {
	t.Helper()
	s, err := newTestEngine(0, 1, 2, 3, 4).InitialSet()
	require.NoError(t, err)
	return s
}

func TestExportSet(t *testing.T) {
	s := testSet(t)
	exp := ExportSet(s)

	assert.Equal(t, s.ID.String(), exp.ID)
	assert.Equal(t, fixedTime, exp.GeneratedAt)
	assert.False(t, exp.Confluence)
	require.Len(t, exp.Markets, 2)

	eq := exp.Markets[0]
	assert.Equal(t, "EQUITIES", eq.Market)
	assert.Equal(t, "#10B981", eq.Color)
	assert.Equal(t, 0.75, eq.Intensity)
	require.Len(t, eq.Days, 5)
	assert.Equal(t, Weekday("MON"), eq.Days[0].Day)
	assert.Equal(t, Weekday("FRI"), eq.Days[4].Day)

	assert.Equal(t, "CRYPTO", exp.Markets[1].Market)
	assert.Equal(t, 0.25, exp.Markets[1].Intensity)
}

func TestSetExport_WriteJSON(t *testing.T) {
	exp := ExportSet(testSet(t))

	var buf bytes.Buffer
	require.NoError(t, exp.WriteJSON(&buf))

	var decoded SetExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, exp.ID, decoded.ID)
	assert.Equal(t, "THE TOWER", decoded.Markets[0].Theme.Name)
	assert.Contains(t, buf.String(), `"generated_at"`)
	assert.Contains(t, buf.String(), "\n  ")
}

func TestSetExport_WriteMsgpack(t *testing.T) {
	exp := ExportSet(testSet(t))

	var buf bytes.Buffer
	require.NoError(t, exp.WriteMsgpack(&buf))

	var decoded SetExport
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, exp.ID, decoded.ID)
	assert.Equal(t, exp.Markets[1].Theme, decoded.Markets[1].Theme)
	assert.True(t, exp.GeneratedAt.Equal(decoded.GeneratedAt))
}

func TestSetExport_WriteSummary(t *testing.T) {
	exp := ExportSet(testSet(t))

	var buf bytes.Buffer
	exp.WriteSummary(&buf)
	out := buf.String()

	assert.Contains(t, out, Subtitle)
	assert.Contains(t, out, exp.ID[:8])
	assert.Contains(t, out, "THE TOWER")
	assert.Contains(t, out, "THE MOON")
	assert.Contains(t, out, "██████░░")
	assert.Contains(t, out, "CONFLUENCE: none")
	assert.Equal(t, 2, strings.Count(out, "  MON "))
}

func TestMeter(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "░░░░"},
		{0.25, "█░░░"},
		{1, "████"},
		{2, "████"},
		{-1, "░░░░"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Meter(tt.in, 4))
	}
}

func TestBanner(t *testing.T) {
	b := Banner()
	assert.NotEmpty(t, b)
	assert.Greater(t, strings.Count(b, "\n"), 1, "figlet text spans several lines")
}
