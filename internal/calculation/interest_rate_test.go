package calculation

import (
	"math"
	"testing"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
	"github.com/stretchr/testify/assert"
)

func TestInterestRate_DailyRate(t *testing.T) {
	ir := NewInterestRate(domain.InterestRateConfig{Name: "test", Rate: 7.0})
	assert.Equal(t, "test", ir.Name)
	assert.InDelta(t, 7.0/100.0/365.0, ir.DailyRate(), 1e-15)
}

func TestInterestRate_CalculateValue(t *testing.T) {
	day := dateutil.Date(2024, time.March, 1)

	t.Run("zero rate is identity", func(t *testing.T) {
		ir := &InterestRate{Name: "zero"}
		assert.Equal(t, 1234.56, ir.CalculateValue(1234.56, day, day.AddDate(5, 0, 0)))
	})

	t.Run("one day compounds once", func(t *testing.T) {
		ir := &InterestRate{Name: "r", Rate: 5.0}
		got := ir.CalculateValue(1000, day, dateutil.NextDay(day))
		assert.InDelta(t, 1000*(1+5.0/100/365), got, 1e-9)
	})

	t.Run("earlier date discounts", func(t *testing.T) {
		ir := &InterestRate{Name: "r", Rate: 5.0}
		back := ir.CalculateValue(1000, day, day.AddDate(0, 0, -30))
		assert.Less(t, back, 1000.0)
		assert.InDelta(t, 1000.0, ir.CalculateValue(back, day.AddDate(0, 0, -30), day), 1e-9)
	})

	t.Run("monotonic for positive balances", func(t *testing.T) {
		ir := &InterestRate{Name: "r", Rate: 3.0}
		prev := 500.0
		for i := 1; i <= 10; i++ {
			v := ir.CalculateValue(500, day, day.AddDate(0, 0, i))
			assert.Greater(t, v, prev)
			prev = v
		}
	})
}

func TestFutureValue(t *testing.T) {
	assert.InDelta(t, 100*math.Pow(1.01, 12), FutureValue(100, 0.01, 12), 1e-9)
	assert.Equal(t, 100.0, FutureValue(100, 0.01, 0))
}
