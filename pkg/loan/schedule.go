package loan

// SchedulePeriod is one row of a deterministic amortization schedule
type SchedulePeriod struct {
	Period         int     `json:"period"`
	OpeningBalance float64 `json:"openingBalance"`
	Payment        float64 `json:"payment"`
	Interest       float64 `json:"interest"`
	Principal      float64 `json:"principal"`
	ClosingBalance float64 `json:"closingBalance"`
}

// AmortizationSchedule returns the contractual schedule of a loan that neither
// defaults nor prepays, at the rate implied by rateShock. It follows the same
// payment and final-period truing rules as SimulateCashflows.
func AmortizationSchedule(p Parameters, rateShock float64) []SchedulePeriod {
	if p.Term <= 0 {
		return nil
	}

	r := EffectiveRate(p.AnnualRate, rateShock)
	payment := ScheduledPayment(p.Principal, r, p.Term)
	outstanding := p.Principal

	periods := make([]SchedulePeriod, p.Term)
	for i := range periods {
		row := SchedulePeriod{Period: i + 1, OpeningBalance: outstanding}
		if outstanding > 0 {
			interest := outstanding * r
			principalComponent := payment - interest
			if principalComponent > outstanding {
				principalComponent = outstanding
				payment = interest + principalComponent
			}

			row.Payment = payment
			row.Interest = interest
			row.Principal = principalComponent
			outstanding -= principalComponent
		}

		row.ClosingBalance = outstanding
		periods[i] = row
	}

	return periods
}

// TotalPayments sums the payments of a schedule
func TotalPayments(schedule []SchedulePeriod) (total float64) {
	for _, row := range schedule {
		total += row.Payment
	}
	return total
}
