package business

import (
	"regexp"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ScheduleDay is one weekday row of a business's weekly schedule.
// Weekday follows time.Weekday numbering (0 = Sunday), which matches the
// Israeli work week starting on Sunday.
type ScheduleDay struct {
	shared.BaseEntity
	BusinessID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_business_weekday,priority:1"`
	Weekday    int       `gorm:"not null;uniqueIndex:idx_schedule_business_weekday,priority:2;check:weekday >= 0 AND weekday <= 6"`
	Open       bool      `gorm:"not null;default:true"`
	OpenTime   string    `gorm:"type:varchar(5)"` // HH:MM, empty when closed
	CloseTime  string    `gorm:"type:varchar(5)"`
}

// TableName returns the table name for GORM
func (ScheduleDay) TableName() string {
	return "business_schedule"
}

// NewScheduleDay creates a schedule row for a weekday
func NewScheduleDay(businessID uuid.UUID, weekday int, open bool, openTime, closeTime string) (*ScheduleDay, error) {
	if weekday < 0 || weekday > 6 {
		return nil, shared.NewDomainError("INVALID_WEEKDAY", "Weekday must be between 0 and 6")
	}
	if open {
		if !timeOfDayRegex.MatchString(openTime) || !timeOfDayRegex.MatchString(closeTime) {
			return nil, shared.NewDomainError("INVALID_TIME", "Open and close times must be in HH:MM format")
		}
	} else {
		openTime = ""
		closeTime = ""
	}

	return &ScheduleDay{
		BaseEntity: shared.NewBaseEntity(),
		BusinessID: businessID,
		Weekday:    weekday,
		Open:       open,
		OpenTime:   openTime,
		CloseTime:  closeTime,
	}, nil
}

// Set replaces the row's hours
func (d *ScheduleDay) Set(open bool, openTime, closeTime string) error {
	if open {
		if !timeOfDayRegex.MatchString(openTime) || !timeOfDayRegex.MatchString(closeTime) {
			return shared.NewDomainError("INVALID_TIME", "Open and close times must be in HH:MM format")
		}
		d.OpenTime = openTime
		d.CloseTime = closeTime
	} else {
		d.OpenTime = ""
		d.CloseTime = ""
	}
	d.Open = open
	d.UpdatedAt = time.Now()
	return nil
}

// WeekSchedule is a full week of schedule rows keyed by weekday
type WeekSchedule []ScheduleDay

// OpenWeekdays returns the set of weekdays the business is open on
func (w WeekSchedule) OpenWeekdays() map[time.Weekday]bool {
	open := make(map[time.Weekday]bool, 7)
	for _, d := range w {
		if d.Open {
			open[time.Weekday(d.Weekday)] = true
		}
	}
	return open
}

// OpenDaysInMonth counts the days the business is open during the month
// containing ref. With no schedule rows every day counts as open.
func (w WeekSchedule) OpenDaysInMonth(ref time.Time) int {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	if len(w) == 0 {
		return daysInMonth
	}

	open := w.OpenWeekdays()
	count := 0
	for day := 0; day < daysInMonth; day++ {
		if open[first.AddDate(0, 0, day).Weekday()] {
			count++
		}
	}
	return count
}

// OpenDaysElapsed counts open days from the 1st of the month through the
// given date inclusive. Dates outside the month clamp to its bounds.
func (w WeekSchedule) OpenDaysElapsed(ref time.Time) int {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	elapsed := ref.Day()

	if len(w) == 0 {
		return elapsed
	}

	open := w.OpenWeekdays()
	count := 0
	for day := 0; day < elapsed; day++ {
		if open[first.AddDate(0, 0, day).Weekday()] {
			count++
		}
	}
	return count
}
