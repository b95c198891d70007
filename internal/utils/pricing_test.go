package utils

import (
	"testing"
	"time"

	"clubstay-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-06-09 is a Sunday, 2024-06-10 a Monday.
var (
	sunday = time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC)
	monday = time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
)

func TestSelectRule(t *testing.T) {
	tests := []struct {
		name     string
		location domain.Location
		date     time.Time
		expected string
	}{
		{"El Sunzal weekday", domain.LocationElSunzal, monday, "sunzal-weekday"},
		{"El Sunzal Saturday", domain.LocationElSunzal, sunday.AddDate(0, 0, -1), "sunzal-weekday"},
		{"El Sunzal Sunday", domain.LocationElSunzal, sunday, "sunzal-sunday"},
		{"Corinto weekday", domain.LocationCorinto, monday, "corinto-guest"},
		{"Corinto Sunday", domain.LocationCorinto, sunday, "corinto-guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := SelectRule(tt.location, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rule.ID)
			assert.Equal(t, tt.location, rule.Location)
		})
	}

	t.Run("Unknown location", func(t *testing.T) {
		_, err := SelectRule(domain.Location("Atlantis"), monday)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestSelectRule_NeverPicksHolidayOrEventRules(t *testing.T) {
	for d := 0; d < 7; d++ {
		date := monday.AddDate(0, 0, d)
		for _, loc := range []domain.Location{domain.LocationElSunzal, domain.LocationCorinto} {
			rule, err := SelectRule(loc, date)
			require.NoError(t, err)
			assert.NotEqual(t, "sunzal-holiday", rule.ID)
			assert.NotEqual(t, "corinto-event", rule.ID)
		}
	}
}

func TestCalculateItems(t *testing.T) {
	t.Run("El Sunzal weekday with two companions", func(t *testing.T) {
		items, err := CalculateItems(domain.LocationElSunzal, 2, monday)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1000), items[0].UnitPriceCents)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, int64(2000), items[0].TotalCents)
		assert.Equal(t, int64(2000), domain.SumItems(items))
	})

	t.Run("Corinto with one companion", func(t *testing.T) {
		items, err := CalculateItems(domain.LocationCorinto, 1, monday)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1000), domain.SumItems(items))
	})

	t.Run("El Sunzal Sunday uses the Sunday fee", func(t *testing.T) {
		items, err := CalculateItems(domain.LocationElSunzal, 3, sunday)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(500), items[0].UnitPriceCents)
		assert.Equal(t, int64(1500), items[0].TotalCents)
	})

	t.Run("No companions", func(t *testing.T) {
		items, err := CalculateItems(domain.LocationElSunzal, 0, monday)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Negative companions", func(t *testing.T) {
		_, err := CalculateItems(domain.LocationCorinto, -1, monday)
		assert.Error(t, err)
	})
}

func TestCalculateItems_TotalIsUnitPriceTimesQuantity(t *testing.T) {
	for companions := 1; companions <= 12; companions++ {
		for _, date := range []time.Time{monday, sunday} {
			items, err := CalculateItems(domain.LocationElSunzal, companions, date)
			require.NoError(t, err)
			rule, _ := SelectRule(domain.LocationElSunzal, date)
			assert.Equal(t, rule.PriceCents*int64(companions), domain.SumItems(items))
		}
	}
}

func TestPricingRules_ReturnsCopy(t *testing.T) {
	rules := PricingRules()
	require.NotEmpty(t, rules)
	rules[0].PriceCents = 1

	rule, ok := RuleByID(rules[0].ID)
	assert.True(t, ok)
	assert.NotEqual(t, int64(1), rule.PriceCents)
}
