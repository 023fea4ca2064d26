package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Davimalu/TourPlanner-sub000/internal/search"
	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// TourSummary is one row of a tour listing.
type TourSummary struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Transport         string  `json:"transport"`
	DistanceKm        float64 `json:"distance_km"`
	Logs              int     `json:"logs"`
	Popularity        float64 `json:"popularity"`
	ChildFriendliness float64 `json:"child_friendliness"`
}

// TourDetail is a tour in the wire format plus its derived fields.
type TourDetail struct {
	Tour              *tour.Tour `json:"tour"`
	Popularity        float64    `json:"popularity"`
	ChildFriendliness float64    `json:"child_friendliness"`
	AISummary         string     `json:"ai_summary,omitempty"`
}

// SyncSummary reports what a synchronization changed.
type SyncSummary struct {
	TourID  int64   `json:"tour_id"`
	Created []int64 `json:"created"`
	Updated []int64 `json:"updated"`
	Deleted []int64 `json:"deleted"`
}

func summarize(tours []*tour.Tour) []TourSummary {
	out := make([]TourSummary, 0, len(tours))
	for _, t := range tours {
		out = append(out, TourSummary{
			ID:                t.ID,
			Name:              t.Name,
			Transport:         string(t.TransportType),
			DistanceKm:        t.Distance,
			Logs:              len(t.Logs),
			Popularity:        t.Popularity,
			ChildFriendliness: t.ChildFriendliness,
		})
	}
	return out
}

func detail(t *tour.Tour) TourDetail {
	return TourDetail{
		Tour:              t,
		Popularity:        t.Popularity,
		ChildFriendliness: t.ChildFriendliness,
		AISummary:         t.AISummary,
	}
}

// writeTourTable prints one line per tour with locale-formatted numbers.
func writeTourTable(w io.Writer, tours []*tour.Tour, loc *search.TextLocale) {
	if len(tours) == 0 {
		fmt.Fprintln(w, "No tours found")
		return
	}
	for _, t := range tours {
		fmt.Fprintf(w, "%4d  %-28s %-14s %8s km  %d log(s)\n",
			t.ID,
			t.Name,
			loc.TransportLabel(t.TransportType),
			loc.FormatDecimal(t.Distance),
			len(t.Logs),
		)
	}
}

// writeTourText prints a full tour, logs included.
func writeTourText(w io.Writer, t *tour.Tour, loc *search.TextLocale) {
	fmt.Fprintf(w, "Tour %d: %s\n", t.ID, t.Name)
	if t.Description != "" {
		fmt.Fprintf(w, "  %s\n", t.Description)
	}
	fmt.Fprintf(w, "  Route:      %s -> %s\n", t.StartLocation, t.EndLocation)
	fmt.Fprintf(w, "  Transport:  %s\n", loc.TransportLabel(t.TransportType))
	fmt.Fprintf(w, "  Distance:   %s km\n", loc.FormatDecimal(t.Distance))
	fmt.Fprintf(w, "  Estimated:  %s min\n", loc.FormatRounded(t.EstimatedTime))
	fmt.Fprintf(w, "  Popularity: %s\n", loc.FormatRounded(t.Popularity))
	fmt.Fprintf(w, "  Child-friendliness: %s\n", loc.FormatRounded(t.ChildFriendliness))
	if t.AISummary != "" {
		fmt.Fprintf(w, "  Summary:    %s\n", t.AISummary)
	}

	fmt.Fprintln(w)
	if len(t.Logs) == 0 {
		fmt.Fprintln(w, "  (no logs)")
		return
	}
	fmt.Fprintf(w, "  Logs (%d):\n", len(t.Logs))
	for _, l := range t.Logs {
		writeLogLine(w, l, loc)
	}
}

func writeLogLine(w io.Writer, l tour.Log, loc *search.TextLocale) {
	comment := strings.TrimSpace(l.Comment)
	if comment == "" {
		comment = "-"
	}
	fmt.Fprintf(w, "  [%d] %s  difficulty %d  %s km  %s  rating %s  %s\n",
		l.ID,
		l.TimeStamp.Format("2006-01-02 15:04"),
		l.Difficulty,
		loc.FormatDecimal(l.DistanceTraveled),
		tour.FormatClock(l.TimeTaken),
		loc.FormatDecimal(l.Rating),
		comment,
	)
}
