// Package classify maps files to destination subpaths.
//
// Three organization modes are supported: category (extension lookup against
// the configured table), date (year/month from modification time), and hybrid
// (category/year). Month names come from a fixed English table so destinations
// are reproducible regardless of locale. All functions are pure.
package classify
