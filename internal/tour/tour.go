package tour

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0088

// MaxDifficulty is the upper bound of Log.Difficulty.
const MaxDifficulty = 5

// Coordinates is a WGS84 position in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceKm returns the great-circle distance to other in kilometres.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	a := s2.LatLngFromDegrees(c.Latitude, c.Longitude)
	b := s2.LatLngFromDegrees(other.Latitude, other.Longitude)
	return a.Distance(b).Radians() * EarthRadiusKm
}

// Valid reports whether the coordinates lie within the WGS84 range.
func (c Coordinates) Valid() bool {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude).IsValid()
}

// Tour is a named trip together with the logs recorded on it.
//
// Logs are owned by the tour: they are never shared with another tour and
// they are removed with it.
type Tour struct {
	ID               int64         `json:"tourId"`
	Name             string        `json:"tourName"`
	Description      string        `json:"tourDescription"`
	StartLocation    string        `json:"startLocation"`
	EndLocation      string        `json:"endLocation"`
	TransportType    TransportType `json:"transportationType"`
	Distance         float64       `json:"distance"`
	EstimatedTime    float64       `json:"estimatedTime"`
	StartCoordinates *Coordinates  `json:"startCoordinates"`
	EndCoordinates   *Coordinates  `json:"endCoordinates"`
	Logs             []Log         `json:"logs"`

	// Derived fields, computed client-side and never sent over the wire.
	Popularity        float64 `json:"-"`
	ChildFriendliness float64 `json:"-"`
	AISummary         string  `json:"-"`
}

// Persisted reports whether the tour has been assigned a store identity.
func (t *Tour) Persisted() bool {
	return t.ID > 0
}

// StraightLineKm returns the great-circle distance between the start and end
// coordinates. ok is false when either coordinate is missing.
func (t *Tour) StraightLineKm() (km float64, ok bool) {
	if t.StartCoordinates == nil || t.EndCoordinates == nil {
		return 0, false
	}
	return t.StartCoordinates.DistanceKm(*t.EndCoordinates), true
}

// LogIndex returns the position of the log with the given id, or -1.
func (t *Tour) LogIndex(id int64) int {
	if id <= 0 {
		return -1
	}
	for i := range t.Logs {
		if t.Logs[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the tour. Events carry clones so that
// subscribers never observe later in-place mutations.
func (t *Tour) Clone() *Tour {
	if t == nil {
		return nil
	}
	c := *t
	if t.StartCoordinates != nil {
		sc := *t.StartCoordinates
		c.StartCoordinates = &sc
	}
	if t.EndCoordinates != nil {
		ec := *t.EndCoordinates
		c.EndCoordinates = &ec
	}
	if t.Logs != nil {
		c.Logs = make([]Log, len(t.Logs))
		copy(c.Logs, t.Logs)
	}
	return &c
}

// CopyScalars overwrites every scalar field of t with the values from src.
// ID and Logs are left untouched.
func (t *Tour) CopyScalars(src *Tour) {
	t.Name = src.Name
	t.Description = src.Description
	t.StartLocation = src.StartLocation
	t.EndLocation = src.EndLocation
	t.TransportType = src.TransportType
	t.Distance = src.Distance
	t.EstimatedTime = src.EstimatedTime
	t.StartCoordinates = nil
	if src.StartCoordinates != nil {
		sc := *src.StartCoordinates
		t.StartCoordinates = &sc
	}
	t.EndCoordinates = nil
	if src.EndCoordinates != nil {
		ec := *src.EndCoordinates
		t.EndCoordinates = &ec
	}
	t.Popularity = src.Popularity
	t.ChildFriendliness = src.ChildFriendliness
	t.AISummary = src.AISummary
}

// Validate checks the edge constraints a tour must satisfy before it is
// handed to a store. It does not touch derived fields.
func (t *Tour) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("validate tour", "name must not be empty")
	}
	if !t.TransportType.Valid() {
		return NewValidationError("validate tour", fmt.Sprintf("unknown transport type %q", t.TransportType))
	}
	if t.Distance < 0 {
		return NewValidationError("validate tour", "distance must not be negative")
	}
	if t.EstimatedTime < 0 {
		return NewValidationError("validate tour", "estimated time must not be negative")
	}
	for _, c := range []*Coordinates{t.StartCoordinates, t.EndCoordinates} {
		if c != nil && !c.Valid() {
			return NewValidationError("validate tour", fmt.Sprintf("coordinates out of range: %v,%v", c.Latitude, c.Longitude))
		}
	}
	for i := range t.Logs {
		if err := t.Logs[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Log is one recorded activity on a tour.
type Log struct {
	ID               int64         `json:"logId"`
	TimeStamp        time.Time     `json:"timeStamp"`
	Comment          string        `json:"comment"`
	Difficulty       int           `json:"difficulty"`
	DistanceTraveled float64       `json:"distanceTraveled"`
	TimeTaken        time.Duration `json:"timeTaken"`
	Rating           float64       `json:"rating"`
}

// Validate checks the ranges of the log's user-entered fields.
func (l *Log) Validate() error {
	if l.Difficulty < 0 || l.Difficulty > MaxDifficulty {
		return &Error{
			Code:    ErrCodeValidation,
			Op:      "validate log",
			LogID:   l.ID,
			Message: fmt.Sprintf("difficulty %d out of range 0..%d", l.Difficulty, MaxDifficulty),
		}
	}
	if l.DistanceTraveled < 0 || l.TimeTaken < 0 {
		return &Error{
			Code:    ErrCodeValidation,
			Op:      "validate log",
			LogID:   l.ID,
			Message: "distance and time must not be negative",
		}
	}
	return nil
}

type logJSON struct {
	ID               int64     `json:"logId"`
	TimeStamp        time.Time `json:"timeStamp"`
	Comment          string    `json:"comment"`
	Difficulty       int       `json:"difficulty"`
	DistanceTraveled float64   `json:"distanceTraveled"`
	TimeTaken        string    `json:"timeTaken"`
	Rating           float64   `json:"rating"`
}

// MarshalJSON encodes TimeTaken as "hh:mm:ss".
func (l Log) MarshalJSON() ([]byte, error) {
	return json.Marshal(logJSON{
		ID:               l.ID,
		TimeStamp:        l.TimeStamp,
		Comment:          l.Comment,
		Difficulty:       l.Difficulty,
		DistanceTraveled: l.DistanceTraveled,
		TimeTaken:        FormatClock(l.TimeTaken),
		Rating:           l.Rating,
	})
}

// UnmarshalJSON accepts TimeTaken as "hh:mm:ss" or as a Go duration string.
func (l *Log) UnmarshalJSON(data []byte) error {
	var raw logJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := ParseClock(raw.TimeTaken)
	if err != nil {
		return fmt.Errorf("log %d: timeTaken: %w", raw.ID, err)
	}
	*l = Log{
		ID:               raw.ID,
		TimeStamp:        raw.TimeStamp,
		Comment:          raw.Comment,
		Difficulty:       raw.Difficulty,
		DistanceTraveled: raw.DistanceTraveled,
		TimeTaken:        d,
		Rating:           raw.Rating,
	}
	return nil
}

// FormatClock renders d as "hh:mm:ss". Hours are not wrapped at 24.
func FormatClock(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	d = d.Round(time.Second)
	h := int64(d / time.Hour)
	m := int64(d%time.Hour) / int64(time.Minute)
	s := int64(d%time.Minute) / int64(time.Second)
	out := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if neg {
		return "-" + out
	}
	return out
}

// ParseClock parses "hh:mm:ss", "hh:mm" or a Go duration string such as
// "1h30m". The empty string is zero.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if !strings.Contains(s, ":") {
		return time.ParseDuration(s)
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	var h, m, sec int64
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	if len(parts) == 3 {
		if _, err := fmt.Sscanf(parts[2], "%d", &sec); err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid seconds in %q", s)
		}
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
	if neg {
		d = -d
	}
	return d, nil
}
