package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDateUTC(t *testing.T) {
	got, err := ParseDateUTC("2024-03-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func Test_ParseDateUTC_TrimsWhitespace(t *testing.T) {
	got, err := ParseDateUTC(" 2024-12-31 ")
	assert.NoError(t, err)
	assert.Equal(t, "2024-12-31", FormatDate(got))
}

func Test_ParseDateUTC_Invalid(t *testing.T) {
	for _, in := range []string{"", "03/15/2024", "2024-13-01", "tomorrow"} {
		_, err := ParseDateUTC(in)
		assert.Error(t, err, in)
	}
}

func Test_DateRoundTrip(t *testing.T) {
	// The calendar date must survive regardless of the process timezone.
	dates := []string{"2024-01-01", "2024-06-30", "2025-12-31"}
	for _, d := range dates {
		parsed, err := ParseDateUTC(d)
		assert.NoError(t, err)
		assert.Equal(t, d, FormatDate(parsed))
		assert.Equal(t, d, FormatDate(parsed.In(time.FixedZone("UTC-10", -10*3600))))
	}
}
