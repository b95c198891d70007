package utils

import (
	"fmt"
	"time"

	"clubstay-backend/internal/domain"
)

// Companion fee table. Holiday and event rules are listed for manual use by
// the billing desk; SelectRule never returns them.
var pricingTable = []domain.PricingRule{
	{
		ID:          "sunzal-weekday",
		Location:    domain.LocationElSunzal,
		Category:    "guest_weekday",
		Description: "Companion fee El Sunzal (Monday to Saturday)",
		PriceCents:  1000,
		Condition:   "Monday to Saturday",
	},
	{
		ID:          "sunzal-sunday",
		Location:    domain.LocationElSunzal,
		Category:    "guest_sunday",
		Description: "Companion fee El Sunzal (Sunday)",
		PriceCents:  500,
		Condition:   "Sunday",
	},
	{
		ID:          "sunzal-holiday",
		Location:    domain.LocationElSunzal,
		Category:    "guest_holiday",
		Description: "Companion fee El Sunzal (holidays and events)",
		PriceCents:  1500,
		Condition:   "Holidays and special events",
	},
	{
		ID:          "corinto-guest",
		Location:    domain.LocationCorinto,
		Category:    "guest_standard",
		Description: "Companion fee Corinto",
		PriceCents:  1000,
		Condition:   "Any day",
	},
	{
		ID:          "corinto-event",
		Location:    domain.LocationCorinto,
		Category:    "guest_event",
		Description: "Companion fee Corinto (events)",
		PriceCents:  1200,
		Condition:   "Special events",
	},
}

const (
	ruleSunzalWeekday = "sunzal-weekday"
	ruleSunzalSunday  = "sunzal-sunday"
	ruleCorintoGuest  = "corinto-guest"
)

// PricingRules returns a copy of the fixed pricing table.
func PricingRules() []domain.PricingRule {
	rules := make([]domain.PricingRule, len(pricingTable))
	copy(rules, pricingTable)
	return rules
}

// RuleByID looks up a rule in the pricing table.
func RuleByID(id string) (domain.PricingRule, bool) {
	for _, r := range pricingTable {
		if r.ID == id {
			return r, true
		}
	}
	return domain.PricingRule{}, false
}

// SelectRule picks the companion fee rule for a location on the given date.
// El Sunzal charges a reduced fee on Sundays; Corinto has a single rate.
func SelectRule(location domain.Location, date time.Time) (domain.PricingRule, error) {
	var id string
	switch location {
	case domain.LocationElSunzal:
		if date.Weekday() == time.Sunday {
			id = ruleSunzalSunday
		} else {
			id = ruleSunzalWeekday
		}
	case domain.LocationCorinto:
		id = ruleCorintoGuest
	default:
		return domain.PricingRule{}, &domain.ValidationError{Field: "location", Reason: fmt.Sprintf("unknown location %q", location)}
	}

	rule, ok := RuleByID(id)
	if !ok {
		return domain.PricingRule{}, fmt.Errorf("pricing rule %s missing from table", id)
	}
	return rule, nil
}

// CalculateItems builds the line items for companions admitted on date.
// No companions means no items.
func CalculateItems(location domain.Location, companions int, date time.Time) ([]domain.LineItem, error) {
	if companions < 0 {
		return nil, &domain.ValidationError{Field: "companions_count", Reason: "must not be negative"}
	}
	if companions == 0 {
		return []domain.LineItem{}, nil
	}

	rule, err := SelectRule(location, date)
	if err != nil {
		return nil, err
	}
	return []domain.LineItem{domain.NewLineItem(rule.Description, rule.PriceCents, companions)}, nil
}
