// Command stellar organizes directories: files are sorted into category or
// date folders, optionally renamed, and every run is journaled so it can be
// undone. It also offers a continuous watch mode and duplicate detection.
package main
