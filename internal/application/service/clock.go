package service

import "time"

// Clock returns the reference instant for time-dependent operations
type Clock func() time.Time

// SystemClock is the wall clock
func SystemClock() time.Time {
	return time.Now()
}

// Period is a closed time window [From, To]
type Period struct {
	From time.Time
	To   time.Time
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// todayPeriod runs from local midnight to now
func todayPeriod(now time.Time, loc *time.Location) Period {
	return Period{From: startOfDay(now, loc), To: now}
}

// weekPeriod is the trailing seven days, not the calendar week
func weekPeriod(now time.Time) Period {
	return Period{From: now.AddDate(0, 0, -7), To: now}
}

func monthPeriod(now time.Time, loc *time.Location) Period {
	t := now.In(loc)
	return Period{From: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc), To: now}
}

func yearPeriod(now time.Time, loc *time.Location) Period {
	t := now.In(loc)
	return Period{From: time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc), To: now}
}
