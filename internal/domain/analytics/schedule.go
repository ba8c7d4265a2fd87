package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSchedule is returned for schedule documents the export
// scheduler cannot read.
var ErrInvalidSchedule = errors.New("invalid export schedule")

// ExportSchedule is the recurrence of a scheduled export, read either
// from {"frequency": "weekly", "weekday": 1, "hour": 6, "minute": 30}
// or from a cron expression {"cron": "30 6 * * 1"}. Times are UTC.
type ExportSchedule struct {
	Frequency UpdateFrequency
	Minute    int
	Hour      int
	Weekday   time.Weekday
	Day       int
}

type scheduleDoc struct {
	Cron      string `json:"cron"`
	Frequency string `json:"frequency"`
	Minute    *int   `json:"minute"`
	Hour      *int   `json:"hour"`
	Weekday   *int   `json:"weekday"`
	Day       *int   `json:"day"`
}

// ParseExportSchedule reads a schedule document. Missing parts default
// to a daily run at 02:00, Mondays for weekly and the 1st for monthly
// schedules.
func ParseExportSchedule(raw []byte) (ExportSchedule, error) {
	var doc scheduleDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ExportSchedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	s := ExportSchedule{Frequency: UpdateDaily, Hour: 2, Weekday: time.Monday, Day: 1}
	if doc.Cron != "" {
		if err := s.parseCron(doc.Cron); err != nil {
			return ExportSchedule{}, err
		}
		return s, s.check()
	}

	if doc.Frequency != "" {
		s.Frequency = UpdateFrequency(doc.Frequency)
	}
	if doc.Minute != nil {
		s.Minute = *doc.Minute
	}
	if doc.Hour != nil {
		s.Hour = *doc.Hour
	}
	if doc.Weekday != nil {
		s.Weekday = time.Weekday(*doc.Weekday)
	}
	if doc.Day != nil {
		s.Day = *doc.Day
	}
	return s, s.check()
}

// parseCron accepts "minute hour day-of-month month day-of-week" where
// each part is a number or "*" and the month is always "*".
func (s *ExportSchedule) parseCron(expr string) error {
	parts := strings.Fields(expr)
	if len(parts) != 5 || parts[3] != "*" {
		return fmt.Errorf("%w: cron %q", ErrInvalidSchedule, expr)
	}
	fields := make([]int, 5)
	for i, p := range parts {
		if p == "*" {
			fields[i] = -1
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("%w: cron %q", ErrInvalidSchedule, expr)
		}
		fields[i] = n
	}
	if fields[0] < 0 {
		return fmt.Errorf("%w: cron %q needs a fixed minute", ErrInvalidSchedule, expr)
	}
	s.Minute = fields[0]

	switch {
	case fields[1] < 0:
		s.Frequency = UpdateHourly
	case fields[2] >= 0:
		s.Frequency = UpdateMonthly
		s.Day = fields[2]
	case fields[4] >= 0:
		s.Frequency = UpdateWeekly
		s.Weekday = time.Weekday(fields[4])
	default:
		s.Frequency = UpdateDaily
	}
	if fields[1] >= 0 {
		s.Hour = fields[1]
	}
	return nil
}

func (s ExportSchedule) check() error {
	switch s.Frequency {
	case UpdateHourly, UpdateDaily, UpdateWeekly, UpdateMonthly:
	default:
		return fmt.Errorf("%w: frequency %q", ErrInvalidSchedule, s.Frequency)
	}
	switch {
	case s.Minute < 0 || s.Minute > 59:
		return fmt.Errorf("%w: minute must be 0-59, got %d", ErrInvalidSchedule, s.Minute)
	case s.Hour < 0 || s.Hour > 23:
		return fmt.Errorf("%w: hour must be 0-23, got %d", ErrInvalidSchedule, s.Hour)
	case s.Weekday < time.Sunday || s.Weekday > time.Saturday:
		return fmt.Errorf("%w: weekday must be 0-6, got %d", ErrInvalidSchedule, s.Weekday)
	case s.Day < 1 || s.Day > 28:
		return fmt.Errorf("%w: day must be 1-28, got %d", ErrInvalidSchedule, s.Day)
	}
	return nil
}

// Next returns the first run strictly after after.
func (s ExportSchedule) Next(after time.Time) time.Time {
	after = after.UTC()
	y, m, d := after.Date()
	switch s.Frequency {
	case UpdateHourly:
		t := after.Truncate(time.Hour).Add(time.Duration(s.Minute) * time.Minute)
		if !t.After(after) {
			t = t.Add(time.Hour)
		}
		return t
	case UpdateWeekly:
		t := time.Date(y, m, d, s.Hour, s.Minute, 0, 0, time.UTC)
		t = t.AddDate(0, 0, (int(s.Weekday)-int(t.Weekday())+7)%7)
		if !t.After(after) {
			t = t.AddDate(0, 0, 7)
		}
		return t
	case UpdateMonthly:
		t := time.Date(y, m, s.Day, s.Hour, s.Minute, 0, 0, time.UTC)
		if !t.After(after) {
			t = time.Date(y, m+1, s.Day, s.Hour, s.Minute, 0, 0, time.UTC)
		}
		return t
	default:
		t := time.Date(y, m, d, s.Hour, s.Minute, 0, 0, time.UTC)
		if !t.After(after) {
			t = t.AddDate(0, 0, 1)
		}
		return t
	}
}

// NextRun returns when a scheduled export is next due: the first slot
// after its last run, or after its creation when it never ran.
func (d *DataExport) NextRun() (time.Time, error) {
	if d.ExportType != ExportScheduled {
		return time.Time{}, fmt.Errorf("%w: export type %q is not scheduled", ErrInvalidSchedule, d.ExportType)
	}
	s, err := ParseExportSchedule(d.Schedule)
	if err != nil {
		return time.Time{}, err
	}
	base := d.CreatedAt
	if d.LastExported != nil {
		base = *d.LastExported
	}
	return s.Next(base), nil
}

// DueAt reports whether a scheduled export should run at now.
func (d *DataExport) DueAt(now time.Time) (bool, error) {
	next, err := d.NextRun()
	if err != nil {
		return false, err
	}
	return !now.Before(next), nil
}
