package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 365, DaysBetween(Date(2023, 1, 1), Date(2024, 1, 1)))
	assert.Equal(t, 366, DaysBetween(Date(2024, 1, 1), Date(2025, 1, 1)))
	assert.Equal(t, -31, DaysBetween(Date(2024, 2, 1), Date(2024, 1, 1)))
	assert.Equal(t, 0, DaysBetween(Date(2024, 2, 1), time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC)))
}

func TestMonthAndYearEnd(t *testing.T) {
	assert.True(t, IsMonthEnd(Date(2024, 2, 29)))
	assert.False(t, IsMonthEnd(Date(2023, 2, 27)))
	assert.True(t, IsMonthEnd(Date(2023, 12, 31)))
	assert.True(t, IsYearEnd(Date(2023, 12, 31)))
	assert.False(t, IsYearEnd(Date(2023, 11, 30)))
}

func TestInRange(t *testing.T) {
	start, end := Date(2023, 12, 25), Date(2024, 12, 25)
	assert.True(t, InRange(start, start, end))
	assert.True(t, InRange(end, start, end))
	assert.False(t, InRange(Date(2023, 12, 24), start, end))
	assert.False(t, InRange(Date(2024, 12, 26), start, end))
}

func TestParse(t *testing.T) {
	d, err := Parse("2024-03-15")
	assert.NoError(t, err)
	assert.Equal(t, Date(2024, time.March, 15), d)

	_, err = Parse("03/15/2024")
	assert.Error(t, err)
}
