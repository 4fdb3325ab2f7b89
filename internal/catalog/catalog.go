package catalog

import "fmt"

// Trending windows the service understands.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

func ValidatePeriod(period string) error {
	switch period {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return nil
	default:
		return fmt.Errorf("invalid trending period: %q", period)
	}
}
