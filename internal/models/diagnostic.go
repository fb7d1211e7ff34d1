package models

import "time"

// UsageFrequency is how often the user reports using a service. Values are
// the pt-BR identifiers the SPA has always sent.
type UsageFrequency string

const (
	FrequencyNever     UsageFrequency = "nunca"
	FrequencyRarely    UsageFrequency = "raramente"
	FrequencySometimes UsageFrequency = "as-vezes"
	FrequencyAlways    UsageFrequency = "sempre"
)

// Valid reports whether the frequency is one of the known identifiers.
func (f UsageFrequency) Valid() bool {
	switch f {
	case FrequencyNever, FrequencyRarely, FrequencySometimes, FrequencyAlways:
		return true
	}
	return false
}

// WasteLevel classifies a service by how wasted its subscription is.
type WasteLevel string

const (
	WasteFull   WasteLevel = "WASTE"
	WasteLowUse WasteLevel = "LOW_USE"
	WasteActive WasteLevel = "ACTIVE"
)

// ServiceEntry is one tagged subscription from the questionnaire.
type ServiceEntry struct {
	ServiceID    string         `json:"service_id"`
	Name         string         `json:"name,omitempty"`
	MonthlyValue float64        `json:"monthly_value"`
	Frequency    UsageFrequency `json:"frequency"`
}

// HabitEntry captures recurring non-subscription spend (delivery, rides,
// coffee). Frequency is occurrences per month.
type HabitEntry struct {
	Type      string  `json:"type"`
	Frequency float64 `json:"frequency"`
	AvgSpent  float64 `json:"avg_spent"`
}

// FinancialBlock captures card annuity and interest spend.
type FinancialBlock struct {
	TotalAnnuity    float64 `json:"total_annuity"`
	MonthlyInterest float64 `json:"monthly_interest"`
}

// TopWaster is a ranked low-use subscription in the report.
type TopWaster struct {
	ServiceID    string     `json:"service_id"`
	ServiceName  string     `json:"service_name"`
	Logo         string     `json:"logo,omitempty"`
	MonthlyValue float64    `json:"monthly_value"`
	YearlyValue  float64    `json:"yearly_value"`
	WasteLevel   WasteLevel `json:"waste_level"`
}

// SavingsScenarios projects yearly savings under three effort levels.
type SavingsScenarios struct {
	Conservative float64 `json:"conservative"`
	Realistic    float64 `json:"realistic"`
	Aggressive   float64 `json:"aggressive"`
}

// TransportInsight is a rule-derived observation about ride-hailing spend.
type TransportInsight struct {
	Type         string  `json:"type"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	MonthlyValue float64 `json:"monthly_value"`
	RidesPerWeek int     `json:"rides_per_week"`
}

// Possibility translates the realistic savings into something tangible.
type Possibility struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// DiagnosticResult is the full computed report.
type DiagnosticResult struct {
	ID                string             `json:"id"`
	CreatedAt         time.Time          `json:"created_at"`
	Email             string             `json:"email"`
	Services          []ServiceEntry     `json:"services"`
	FinancialBlock    *FinancialBlock    `json:"financial_block,omitempty"`
	Habits            []HabitEntry       `json:"habits,omitempty"`
	TotalMonthly      float64            `json:"total_monthly"`
	TotalYearly       float64            `json:"total_yearly"`
	WasteMonthly      float64            `json:"waste_monthly"`
	WasteYearly       float64            `json:"waste_yearly"`
	TopWasters        []TopWaster        `json:"top_wasters"`
	Savings           SavingsScenarios   `json:"savings"`
	TransportInsights []TransportInsight `json:"transport_insights,omitempty"`
	Possibilities     []Possibility      `json:"possibilities"`
}
