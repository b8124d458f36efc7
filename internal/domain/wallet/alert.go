package wallet

import (
	"sort"
	"time"
)

// AlertLevel classifies a pending check by how close it is to its due date
type AlertLevel string

const (
	AlertLevelOverdue AlertLevel = "overdue"
	AlertLevelUrgent  AlertLevel = "urgent"
	AlertLevelWarning AlertLevel = "warning"
	AlertLevelNormal  AlertLevel = "normal"
)

// Alert window upper bounds, in days
const (
	UrgentWithinDays  = 3
	WarningWithinDays = 7
)

// String returns the string representation of AlertLevel
func (l AlertLevel) String() string {
	return string(l)
}

// CheckAlert is a pending check annotated with its due-date classification.
// It is computed on read and never stored.
type CheckAlert struct {
	Check        Check
	DaysUntilDue int
	IsOverdue    bool
	AlertLevel   AlertLevel
}

// calendarDate returns t's year, month and day as a UTC midnight
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntilDue counts whole calendar days from today to due.
// due is a calendar date and is taken as stored; today is an instant read in
// loc. The time of day never matters.
func DaysUntilDue(due, today time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	dueDate := calendarDate(due)
	todayDate := calendarDate(today.In(loc))
	return int(dueDate.Sub(todayDate).Hours() / 24)
}

// ClassifyAlert maps days until due onto an alert level
func ClassifyAlert(daysUntilDue int) AlertLevel {
	switch {
	case daysUntilDue < 0:
		return AlertLevelOverdue
	case daysUntilDue <= UrgentWithinDays:
		return AlertLevelUrgent
	case daysUntilDue <= WarningWithinDays:
		return AlertLevelWarning
	default:
		return AlertLevelNormal
	}
}

// BuildAlerts keeps pending checks only, classifies them against today and
// orders them by ascending due date.
func BuildAlerts(checks []Check, today time.Time, loc *time.Location) []CheckAlert {
	alerts := make([]CheckAlert, 0, len(checks))
	for i := range checks {
		if checks[i].Status != CheckStatusPending {
			continue
		}
		days := DaysUntilDue(checks[i].DueDate, today, loc)
		alerts = append(alerts, CheckAlert{
			Check:        checks[i],
			DaysUntilDue: days,
			IsOverdue:    days < 0,
			AlertLevel:   ClassifyAlert(days),
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Check.DueDate.Before(alerts[j].Check.DueDate)
	})
	return alerts
}
