package search

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
	"golang.org/x/text/unicode/norm"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// Locale supplies the culture-specific pieces of matching. It is injected
// into Index instead of being read from process-wide state.
type Locale interface {
	// Tag identifies the locale.
	Tag() language.Tag
	// Fold normalizes s for case-insensitive comparison.
	Fold(s string) string
	// FormatDecimal renders v with the locale's decimal separator and no
	// grouping separators.
	FormatDecimal(v float64) string
	// TransportLabel returns the human-readable, localized transport label.
	TransportLabel(t tour.TransportType) string
}

// TextLocale implements Locale with golang.org/x/text.
//
// Not safe for concurrent use: the case mapper keeps internal state.
type TextLocale struct {
	tag     language.Tag
	printer *message.Printer
	lower   cases.Caser
}

// NewLocale creates a TextLocale for tag using the built-in label catalog.
func NewLocale(tag language.Tag) *TextLocale {
	return NewLocaleWithCatalog(tag, DefaultLabels())
}

// NewLocaleWithCatalog creates a TextLocale that looks transport labels up
// in cat. Keys are the English labels (tour.TransportType.Label).
func NewLocaleWithCatalog(tag language.Tag, cat catalog.Catalog) *TextLocale {
	return &TextLocale{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
		lower:   cases.Lower(tag),
	}
}

// ParseLocale parses a BCP 47 tag such as "de-AT" and returns its locale.
func ParseLocale(s string) (*TextLocale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", s, err)
	}
	return NewLocale(tag), nil
}

// Tag implements Locale.
func (l *TextLocale) Tag() language.Tag {
	return l.tag
}

// Fold implements Locale. Input is NFC-normalized before case mapping so that
// composed and decomposed forms compare equal.
func (l *TextLocale) Fold(s string) string {
	return l.lower.String(norm.NFC.String(s))
}

// FormatDecimal implements Locale. All fraction digits of the shortest
// round-trip form of v are kept; the locale pattern would otherwise round
// to three.
func (l *TextLocale) FormatDecimal(v float64) string {
	digits := fractionDigits(v)
	return l.printer.Sprint(number.Decimal(v,
		number.NoSeparator(),
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))
}

// FormatRounded renders v like FormatDecimal but rounded to the locale
// pattern's three fraction digits. It is meant for display of derived
// scores, never for matching.
func (l *TextLocale) FormatRounded(v float64) string {
	return l.printer.Sprint(number.Decimal(v, number.NoSeparator()))
}

// fractionDigits counts the fraction digits of v's shortest decimal form.
func fractionDigits(v float64) int {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// TransportLabel implements Locale.
func (l *TextLocale) TransportLabel(t tour.TransportType) string {
	label := t.Label()
	return l.printer.Sprintf(message.Key(label, label))
}

var germanLabels = map[tour.TransportType]string{
	tour.TransportCar:          "Auto",
	tour.TransportTruck:        "Lkw",
	tour.TransportBicycle:      "Fahrrad",
	tour.TransportRoadBike:     "Rennrad",
	tour.TransportMountainBike: "Mountainbike",
	tour.TransportEBicycle:     "E-Bike",
	tour.TransportWalking:      "Spaziergang",
	tour.TransportHiking:       "Wandern",
	tour.TransportWheelchair:   "Rollstuhl",
}

// DefaultLabels returns a catalog with English and German transport labels.
// Other locales fall back to English.
func DefaultLabels() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, t := range tour.TransportTypes {
		// SetString only fails on malformed messages; the labels are literals.
		_ = b.SetString(language.English, t.Label(), t.Label())
		_ = b.SetString(language.German, t.Label(), germanLabels[t])
	}
	return b
}
