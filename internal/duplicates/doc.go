// Package duplicates groups files by content equality.
//
// Detection runs in two phases to bound hashing cost: files are first
// bucketed by exact byte size (no I/O), then SHA-256 hashes are computed only
// within buckets holding two or more files. Unreadable files are excluded
// from grouping and reported, never fatal. The detector returns groups for
// the caller to act on; it deletes nothing itself.
package duplicates
