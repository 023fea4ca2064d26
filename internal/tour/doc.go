// Package tour defines the catalog data model: tours, their owned logs, the
// transport modes a tour can use, and the typed errors shared by every layer
// that reads or writes them.
//
// A Tour with ID <= 0 has not been persisted yet. The same holds for a Log
// with ID <= 0. Once persisted, log ids are unique within their tour.
//
// Popularity and ChildFriendliness are derived values. They are only valid
// immediately after an explicit recompute (see package attribute); editing
// logs does not invalidate them. They are also excluded from the JSON wire
// format, as is AISummary.
package tour
