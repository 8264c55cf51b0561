package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayFormatting(t *testing.T) {
	d := NewDay(time.Date(2025, time.March, 7, 18, 30, 0, 0, time.Local))
	assert.Equal(t, "07/03/2025", d.String())

	parsed, err := ParseDay("07/03/2025")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	_, err = ParseDay("2025-03-07")
	assert.Error(t, err)
}

func TestDayJSONRoundTrip(t *testing.T) {
	history := map[string][]Day{
		"Plank": {
			NewDay(time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)),
			NewDay(time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)),
		},
	}
	payload, err := json.Marshal(history)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Plank":["02/01/2025","03/01/2025"]}`, string(payload))

	var decoded map[string][]Day
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, history, decoded)
}

func TestDayArithmetic(t *testing.T) {
	d := NewDay(time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "01/03/2025", d.AddDays(1).String())
	assert.Equal(t, 1, d.DaysUntil(d.AddDays(1)))
	assert.Equal(t, -2, d.DaysUntil(d.AddDays(-2)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))
}

func TestAllHistoryDays(t *testing.T) {
	day := func(s string) Day {
		d, err := ParseDay(s)
		require.NoError(t, err)
		return d
	}
	rec := PatientRecord{
		History: map[string][]Day{
			"Plank":        {day("03/01/2025"), day("01/01/2025")},
			"Ponte glutei": {day("01/01/2025"), day("02/01/2025")},
		},
	}
	days := rec.AllHistoryDays()
	require.Len(t, days, 3)
	assert.Equal(t, "01/01/2025", days[0].String())
	assert.Equal(t, "02/01/2025", days[1].String())
	assert.Equal(t, "03/01/2025", days[2].String())
}
