package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"team_rotator/internal/domain/rotation"
)

const failureTTL = time.Minute

type holidayDay struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	IsOffDay bool   `json:"isOffDay"`
}

type holidayDocument struct {
	Year int          `json:"year"`
	Days []holidayDay `json:"days"`
}

type yearEntry struct {
	days      map[string]bool // date -> isOffDay
	expiresAt time.Time
}

// HolidayCalendar answers working-day questions from a per-year holiday document.
// Dates in the document override the weekend rule in both directions.
type HolidayCalendar struct {
	baseURL string
	client  *http.Client
	ttl     time.Duration
	log     *logrus.Entry
	now     func() time.Time

	mu    sync.Mutex
	years map[int]yearEntry
}

// NewHolidayCalendar creates a calendar that fetches <baseURL>/<year>.json.
func NewHolidayCalendar(baseURL string, ttl time.Duration, client *http.Client, log *logrus.Entry) *HolidayCalendar {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &HolidayCalendar{
		baseURL: baseURL,
		client:  client,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
		years:   make(map[int]yearEntry),
	}
}

// IsWorkingDay reports whether day is a working day. If the holiday document cannot be
// loaded, only weekends count as non-working.
func (c *HolidayCalendar) IsWorkingDay(ctx context.Context, day time.Time) bool {
	day = rotation.DateOf(day)
	days := c.yearDays(ctx, day.Year())
	if off, ok := days[day.Format("2006-01-02")]; ok {
		return !off
	}
	return !rotation.IsWeekend(day)
}

// IsNonWorkingDay is the negation of IsWorkingDay.
func (c *HolidayCalendar) IsNonWorkingDay(ctx context.Context, day time.Time) bool {
	return !c.IsWorkingDay(ctx, day)
}

func (c *HolidayCalendar) yearDays(ctx context.Context, year int) map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.years[year]; ok && now.Before(e.expiresAt) {
		return e.days
	}

	days, err := c.fetch(ctx, year)
	if err != nil {
		c.log.WithError(err).WithField("year", year).Warn("Holiday calendar unavailable, falling back to weekends only")
		// Keep a stale copy if one exists; otherwise cache the empty set briefly.
		if e, ok := c.years[year]; ok {
			c.years[year] = yearEntry{days: e.days, expiresAt: now.Add(failureTTL)}
			return e.days
		}
		c.years[year] = yearEntry{days: map[string]bool{}, expiresAt: now.Add(failureTTL)}
		return nil
	}

	c.years[year] = yearEntry{days: days, expiresAt: now.Add(c.ttl)}
	c.log.WithFields(logrus.Fields{"year": year, "days": len(days)}).Debug("Loaded holiday calendar")
	return days
}

func (c *HolidayCalendar) fetch(ctx context.Context, year int) (map[string]bool, error) {
	docURL := fmt.Sprintf("%s/%d.json", c.baseURL, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("fetch holidays for %d: %w", year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch holidays for %d: unexpected status %d", year, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read holidays for %d: %w", year, err)
	}

	var doc holidayDocument
	if err := sonic.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode holidays for %d: %w", year, err)
	}
	days := make(map[string]bool, len(doc.Days))
	for _, d := range doc.Days {
		days[d.Date] = d.IsOffDay
	}
	return days, nil
}
