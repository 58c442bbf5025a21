package domain

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessenger_RecordsTranscriptInOrder(t *testing.T) {
	m := NewMessenger(slog.Default())

	m.Infof("step %d", 1)
	m.Warnf("deviation: %s", "style missing")
	m.Infof("step %d", 2)
	m.Errorf("boom")

	msgs := m.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, Message{Severity: SeverityInfo, Text: "step 1"}, msgs[0])
	assert.Equal(t, Message{Severity: SeverityWarning, Text: "deviation: style missing"}, msgs[1])
	assert.Equal(t, Message{Severity: SeverityInfo, Text: "step 2"}, msgs[2])
	assert.Equal(t, Message{Severity: SeverityError, Text: "boom"}, msgs[3])
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
}

func TestRunResult_TotalAcresAndWarnings(t *testing.T) {
	r := &RunResult{
		Features: []RankFeature{
			{Rank: RankMostPreferred, Acres: 10.5},
			{Rank: RankAvoidance, Acres: 2.25},
		},
		Messages: []Message{
			{Severity: SeverityInfo, Text: "ok"},
			{Severity: SeverityWarning, Text: "careful"},
		},
	}

	assert.InDelta(t, 12.75, r.TotalAcres(), 1e-9)

	warnings := r.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "careful", warnings[0].Text)
}
