package domain

import "time"

type PricingUnit string

const (
	PricingUnitDay   PricingUnit = "day"
	PricingUnitWeek  PricingUnit = "week"
	PricingUnitMonth PricingUnit = "month"
)

type Plot struct {
	ID                 string      `json:"id"`
	OwnerID            string      `json:"owner_id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	City               string      `json:"city"`
	PricePerDayCents   int64       `json:"price_per_day_cents"`
	PricePerWeekCents  int64       `json:"price_per_week_cents"`
	PricePerMonthCents int64       `json:"price_per_month_cents"`
	PricingUnit        PricingUnit `json:"pricing_unit"`
	CreatedAt          time.Time   `json:"created_at"`
}

type PlotSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"owner_id"`
}
