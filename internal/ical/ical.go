// Package ical renders minimal iCalendar documents for event download links.
package ical

import (
	"fmt"
	"strings"
	"time"

	"eventease/internal/model"
)

// icalTimeLayout is the UTC timestamp form iCalendar expects.
const icalTimeLayout = "20060102T150405Z"

// defaultDuration is assumed for events without an end date.
const defaultDuration = 2 * time.Hour

// Render produces a single-VEVENT calendar document for the event. Lines are
// CRLF-terminated per RFC 5545.
func Render(event *model.Event) string {
	start := event.StartDate.UTC()
	end := start.Add(defaultDuration)
	if event.EndDate != nil {
		end = event.EndDate.UTC()
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//EventEase//EN",
		"BEGIN:VEVENT",
		"UID:" + event.ID.String() + "@eventease",
		"DTSTAMP:" + time.Now().UTC().Format(icalTimeLayout),
		"DTSTART:" + start.Format(icalTimeLayout),
		"DTEND:" + end.Format(icalTimeLayout),
		"SUMMARY:" + escapeText(event.Title),
		"DESCRIPTION:" + escapeText(event.Description),
		"LOCATION:" + escapeText(event.Location),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

// Filename returns a safe download filename derived from the event title.
func Filename(event *model.Event) string {
	var b strings.Builder
	for _, r := range strings.ToLower(event.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" {
		name = "event"
	}
	return fmt.Sprintf("%s.ics", name)
}

// escapeText escapes the characters RFC 5545 treats specially in TEXT values.
func escapeText(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}
