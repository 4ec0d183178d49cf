// Package scanner walks a target directory and produces the file entries the
// organize pipeline consumes.
//
// Hidden files and files without an extension are left in place. Recursive
// scans consult pathguard at every directory boundary and keep a
// canonical-path visited set so symlink cycles terminate. Non-recursive scans
// additionally nominate subdirectories for a bulk rename when their contents
// are dominated by a single category.
package scanner
