// Package pathguard decides whether a directory may be organized.
//
// It rejects protected system/user paths and their ancestors, recognizes
// software project folders by their marker files (.git, go.mod, Cargo.toml,
// ...), and flags dependency directories such as node_modules. A rejected
// target aborts a run before scanning; a rejected descendant is silently
// pruned from recursive walks.
package pathguard
