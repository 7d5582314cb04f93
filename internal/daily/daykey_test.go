package daily

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog-app/daylog/internal/common"
	"github.com/daylog-app/daylog/internal/models"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestKeyOf(t *testing.T) {
	shanghai := mustZone(t, "Asia/Shanghai")

	// 2026-01-02 23:30 in Shanghai is still Jan 2 there but Jan 2 15:30 UTC.
	at := time.Date(2026, 1, 2, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-02", KeyOf(at, shanghai))
	assert.Equal(t, "2026-01-02", KeyOf(at, time.UTC))

	// 2026-01-02 18:30 UTC is already Jan 3 in Shanghai.
	at = time.Date(2026, 1, 2, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-03", KeyOf(at, shanghai))
	assert.Equal(t, "2026-01-02", KeyOf(at, time.UTC))
}

func TestKeyOf_MidnightBoundary(t *testing.T) {
	loc := mustZone(t, "Europe/Riga")

	beforeMidnight := time.Date(2026, 1, 2, 23, 59, 59, 0, loc)
	afterMidnight := time.Date(2026, 1, 3, 0, 0, 1, 0, loc)

	assert.Equal(t, "2026-01-02", KeyOf(beforeMidnight, loc))
	assert.Equal(t, "2026-01-03", KeyOf(afterMidnight, loc))
}

func TestBoundsOf(t *testing.T) {
	loc := mustZone(t, "Asia/Shanghai")

	start, end, err := BoundsOf("2026-01-02", loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, loc).Unix(), start)
	assert.Equal(t, time.Date(2026, 1, 3, 0, 0, 0, 0, loc).Unix(), end)
	assert.Equal(t, int64(86400), end-start)

	// The interval is half-open: the next midnight belongs to the next day.
	nextStart, _, err := BoundsOf("2026-01-03", loc)
	require.NoError(t, err)
	assert.Equal(t, end, nextStart)
}

func TestBoundsOf_BadKey(t *testing.T) {
	_, _, err := BoundsOf("02.01.2026", time.UTC)
	assert.True(t, errors.Is(err, common.ErrorValidation))
}

func TestLabelOf(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, loc)

	assert.Equal(t, "Today", LabelOf("2026-01-02", now, loc))
	assert.Equal(t, "Yesterday", LabelOf("2026-01-01", now, loc))
	assert.Equal(t, "March 15", LabelOf("2026-03-15", now, loc))
	assert.Equal(t, "2025 December 30", LabelOf("2025-12-30", now, loc))
}

func TestTitleLineOf(t *testing.T) {
	assert.Equal(t, "# 2026-01-02", TitleLineOf("2026-01-02"))
}

func TestIsContainerFor(t *testing.T) {
	tests := []struct {
		name    string
		content string
		dayKey  string
		want    bool
	}{
		{"exact title", "# 2026-01-02\n\n- [ ] item", "2026-01-02", true},
		{"leading whitespace trimmed", "\n  # 2026-01-02\n- [ ] item", "2026-01-02", true},
		{"different day", "# 2026-01-03\n\n- [ ] item", "2026-01-02", false},
		{"title not first", "note\n# 2026-01-02", "2026-01-02", false},
		{"plain memo", "just a memo", "2026-01-02", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &models.Record{Content: tt.content}
			assert.Equal(t, tt.want, IsContainerFor(rec, tt.dayKey))
		})
	}
}
