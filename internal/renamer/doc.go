// Package renamer produces normalized candidate filenames.
//
// Clean mode strips diacritics to base Latin letters via Unicode NFD
// decomposition, lowercases, collapses separator runs into single dashes, and
// removes trailing duplicate markers such as "(1)" or "(copy)". DatePrefix
// mode prepends the modification date. Skip mode leaves names untouched.
//
// The renamer never inspects the filesystem; resolving collisions against
// existing destination files is the move engine's job.
package renamer
