// Package logging builds the slog loggers used across stellar.
//
// It supplies level parsing, console/JSON handler selection, typed attribute
// helpers, and context-derived fields so commands and the watch loop emit
// uniformly keyed records. Obtain loggers through New or NewNop rather than
// constructing slog handlers directly.
package logging
