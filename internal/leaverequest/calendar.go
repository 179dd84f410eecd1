package leaverequest

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"mohr/internal/domain"
)

// calendarLookback keeps recently finished leave visible in feeds.
const calendarLookback = 90 * 24 * time.Hour

// CalendarFeed renders approved leave as an iCalendar document for
// subscription from external calendar clients. Employees see their
// own leave, admins the whole company.
func (s *service) CalendarFeed(ctx context.Context, caller domain.Identity) (string, error) {
	scope := ""
	if !caller.IsAdmin() {
		scope = caller.EmployeeID
	}

	list, err := s.repo.FindApproved(ctx, scope, s.now().Add(-calendarLookback))
	if err != nil {
		s.logger.Error("calendar feed query failed", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//MOHR//Leave Calendar//EN")
	cal.SetName("MOHR Approved Leave")

	for i := range list {
		l := &list[i]

		event := cal.AddEvent(l.ID.String() + "@mohr")
		event.SetAllDayStartAt(l.StartDate)
		// DTEND is exclusive for all-day events.
		event.SetAllDayEndAt(l.EndDate.AddDate(0, 0, 1))
		event.SetDtStampTime(l.UpdatedAt.UTC())

		summary := l.LeaveType
		if l.Employee != nil {
			summary = fmt.Sprintf("%s - %s", l.Employee.FullName(), l.LeaveType)
		}
		event.SetSummary(summary)
		event.SetDescription(fmt.Sprintf("%d day(s) of %s leave", l.DaysRequested, l.LeaveType))
	}

	return cal.Serialize(), nil
}
