// Package gitrepo reads change information from a git working copy.
//
// DiffReader requests a merge-base relative ("three-dot") diff between two
// branch references and reduces it to the lines the feature branch adds.
package gitrepo
