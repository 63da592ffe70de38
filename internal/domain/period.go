package domain

import (
	"fmt"

	"github.com/eulademuhizi/malaria-dashboard-api/pkg/utils"
)

// Period identifies one monthly observation snapshot.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Previous returns the preceding period, wrapping January back to December
// of the previous year.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Label renders the period for axis/label use, e.g. "Aug 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", utils.MonthName(p.Month), p.Year)
}

// AvailablePeriods lists the periods present in a dataset, newest first.
type AvailablePeriods struct {
	Periods []Period `json:"periods"`
	Years   []int    `json:"years"`
	Months  []int    `json:"months"`
}
