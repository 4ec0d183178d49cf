// Package watchmode keeps a target directory organized continuously.
//
// A watch session holds the target lock for its whole lifetime and processes
// newly appeared files strictly sequentially through the same single-file
// pipeline batch runs use. New files are debounced for a fixed settle period
// so partially written downloads are not moved mid-transfer. Cancellation
// drains files already waiting before the watcher stops.
package watchmode
