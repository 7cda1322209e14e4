package domain

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
)

// ErrArchiveExhausted signals that a year has no further pages: the archive
// returned a missing-page status, or the page carried no data table. The
// fetcher wraps it with detail so transport errors remain distinguishable.
var ErrArchiveExhausted = errors.New("archive exhausted")

// Raw labels recognized on a detail page.
const (
	FieldDate         = "Date"
	FieldTime         = "Time"
	FieldLocation     = "Location"
	FieldOperator     = "Operator"
	FieldFlightNumber = "Flight #"
	FieldRoute        = "Route"
	FieldACType       = "AC Type"
	FieldRegistration = "Registration"
	FieldCnLn         = "cn / ln"
	FieldAboard       = "Aboard"
	FieldFatalities   = "Fatalities"
	FieldGround       = "Ground"
	FieldSummary      = "Summary"
)

// Derived and bookkeeping field names.
const (
	FieldAboardTotal          = "Aboard Total"
	FieldAboardPassengers     = "Aboard Passengers"
	FieldAboardCrew           = "Aboard Crew"
	FieldFatalitiesTotal      = "Fatalities Total"
	FieldFatalitiesPassengers = "Fatalities Passengers"
	FieldFatalitiesCrew       = "Fatalities Crew"
	FieldURL                  = "Url"
	FieldLatitude             = "Latitude"
	FieldLongitude            = "Longitude"
)

// fieldSet is the closed set of raw labels extracted from a page. Rows with
// labels outside this set are silently dropped.
var fieldSet = map[string]struct{}{
	FieldDate:         {},
	FieldTime:         {},
	FieldLocation:     {},
	FieldOperator:     {},
	FieldFlightNumber: {},
	FieldRoute:        {},
	FieldACType:       {},
	FieldRegistration: {},
	FieldCnLn:         {},
	FieldAboard:       {},
	FieldFatalities:   {},
	FieldGround:       {},
	FieldSummary:      {},
}

// RecognizedField reports whether label belongs to the extracted field set.
func RecognizedField(label string) bool {
	_, ok := fieldSet[label]
	return ok
}

// columnOrder is the canonical dataset column ordering. Columns appear in the
// output only when at least one record carries them.
var columnOrder = []string{
	FieldDate, FieldTime, FieldLocation, FieldOperator, FieldFlightNumber,
	FieldRoute, FieldACType, FieldRegistration, FieldCnLn,
	FieldAboardTotal, FieldAboardPassengers, FieldAboardCrew,
	FieldFatalitiesTotal, FieldFatalitiesPassengers, FieldFatalitiesCrew,
	FieldGround, FieldSummary, FieldURL, FieldLatitude, FieldLongitude,
}

// TableRow is one label/value pair extracted from a detail page table.
type TableRow struct {
	Label string
	Value string
}

// Cell is one nullable field value in a crash record. The zero value is null.
type Cell struct {
	value any // string, int or float64; nil marks unknown ("?") or unparseable input
}

// TextCell wraps a string value.
func TextCell(s string) Cell { return Cell{value: s} }

// IntCell wraps an integer value.
func IntCell(n int) Cell { return Cell{value: n} }

// FloatCell wraps a floating-point value.
func FloatCell(f float64) Cell { return Cell{value: f} }

// NullCell returns the null cell.
func NullCell() Cell { return Cell{} }

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.value == nil }

// Text returns the cell's string value, if it holds one.
func (c Cell) Text() (string, bool) {
	s, ok := c.value.(string)
	return s, ok
}

// Int returns the cell's integer value, if it holds one.
func (c Cell) Int() (int, bool) {
	n, ok := c.value.(int)
	return n, ok
}

// Float returns the cell's float value, if it holds one.
func (c Cell) Float() (float64, bool) {
	f, ok := c.value.(float64)
	return f, ok
}

// String renders the cell for delimited output. Null cells render empty.
func (c Cell) String() string {
	switch v := c.value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON renders null cells as JSON null and typed cells as their value.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value)
}

// Record maps field names to cells for one scraped detail page. Records are
// mutated while normalization fills in derived fields and become effectively
// immutable once appended to the dataset.
type Record map[string]Cell

// SetField normalizes one raw label/value pair into the record. Unrecognized
// labels are dropped; Time is normalized; Aboard and Fatalities are split
// into Total/Passengers/Crew; the "?" sentinel maps to a null cell.
func (r Record) SetField(label, raw string) {
	if !RecognizedField(label) {
		return
	}
	switch label {
	case FieldTime:
		r[FieldTime] = NormalizeTime(raw)
	case FieldAboard:
		total, passengers, crew := ParseCountTriple(raw)
		r[FieldAboardTotal] = total
		r[FieldAboardPassengers] = passengers
		r[FieldAboardCrew] = crew
	case FieldFatalities:
		total, passengers, crew := ParseCountTriple(raw)
		r[FieldFatalitiesTotal] = total
		r[FieldFatalitiesPassengers] = passengers
		r[FieldFatalitiesCrew] = crew
	default:
		if raw == sentinelUnknown {
			r[label] = NullCell()
		} else {
			r[label] = TextCell(raw)
		}
	}
}

// Columns returns the union of field names across records, known columns
// first in canonical order, unknown extras appended in sorted order.
func Columns(records []Record) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for name := range rec {
			seen[name] = struct{}{}
		}
	}

	cols := make([]string, 0, len(seen))
	for _, name := range columnOrder {
		if _, ok := seen[name]; ok {
			cols = append(cols, name)
			delete(seen, name)
		}
	}

	extras := make([]string, 0, len(seen))
	for name := range seen {
		extras = append(extras, name)
	}
	sort.Strings(extras)
	return append(cols, extras...)
}
