package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/report"
)

func TestResolveRange(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, wib)

	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, wib)
	}

	type testCase struct {
		name      string
		rng       report.Range
		start     *time.Time
		end       *time.Time
		wantStart time.Time
		wantEnd   time.Time
		wantErr   error
	}

	tests := []testCase{
		{name: "today", rng: report.RangeToday, wantStart: date(2026, 3, 15), wantEnd: date(2026, 3, 16)},
		{name: "default is this month", wantStart: date(2026, 3, 1), wantEnd: date(2026, 4, 1)},
		{name: "last month", rng: report.RangeLastMonth, wantStart: date(2026, 2, 1), wantEnd: date(2026, 3, 1)},
		{name: "last three months", rng: report.RangeLast3Months, wantStart: date(2026, 1, 1), wantEnd: date(2026, 4, 1)},
		{name: "this year", rng: report.RangeThisYear, wantStart: date(2026, 1, 1), wantEnd: date(2027, 1, 1)},
		{
			name:      "explicit dates cover whole days",
			rng:       report.RangeToday,
			start:     new(date(2026, 2, 10)),
			end:       new(date(2026, 2, 12)),
			wantStart: date(2026, 2, 10),
			wantEnd:   date(2026, 2, 13),
		},
		{name: "only start", start: new(date(2026, 2, 10)), wantErr: report.ErrIncompleteWindow},
		{
			name:    "reversed dates",
			start:   new(date(2026, 2, 12)),
			end:     new(date(2026, 2, 10)),
			wantErr: report.ErrWindowOutOfOrder,
		},
		{name: "unknown range", rng: "forever", wantErr: report.ErrUnknownRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := report.ResolveRange(tt.rng, tt.start, tt.end, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(w.Start), "start %s", w.Start)
			assert.True(t, tt.wantEnd.Equal(w.End), "end %s", w.End)
		})
	}
}
