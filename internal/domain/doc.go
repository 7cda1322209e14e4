// Package domain models aviation-accident records scraped from the
// planecrashinfo.com archive.
//
// # Data Source
//
// The archive publishes one detail page per accident at
// https://www.planecrashinfo.com/{year}/{year}-{page}.htm, with pages numbered
// from 1 within each year. A year's sequence ends when a page request returns
// a non-200 status or the page carries no data table. Each detail page holds a
// single two-column table (border="0" cellpadding="3") of label/value rows.
//
// # Archive Conventions
//
// Recognized labels (the closed field set):
//
//	Date, Time, Location, Operator, Flight #, Route, AC Type, Registration,
//	cn / ln, Aboard, Fatalities, Ground, Summary
//
// Rows with any other label are dropped. A repeated label within one page
// overwrites the earlier value.
//
// Time format (inconsistent across the archive):
//
//	"1600"     bare 24-hour clock, no colon; three digits are zero-padded
//	           ("400" means 04:00). Reformatted to HH:MM without range checks.
//	"4:00 PM"  12-hour clock with meridiem.
//	"04:00"    24-hour clock with colon.
//
// Count-triple fields (Aboard, Fatalities):
//
//	"<total> (passengers:<n|?> crew:<n|?>)"
//	The total is a leading-integer prefix; passengers and crew are searched
//	anywhere in the text. Each component is independently unknowable.
//
// Unknown values:
//
//	"?" is the archive's sentinel for an unknown field and maps to a null
//	cell in every recognized field.
//
// Locations:
//
//	Free text, often carrying a directional prefix ("Near Moscow",
//	"Off the coast of Peru", "Over the Mediterranean"). [CleanLocation]
//	strips Near/Off/Over for geocoding queries; the original string stays
//	the record value and the geocode cache key.
package domain
