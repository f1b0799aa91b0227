// Revlist is a CLI that aggregates open code-review requests across
// heterogeneous hosting services and prints one sorted report.
//
// It polls the GitHub, GitLab, Pagure, and Gerrit instances named in its
// YAML configuration, normalizes each service's open pull, merge, or change
// requests into one record shape, filters them by age, sorts them by time,
// and renders the result as oneline, indented, or json output.
//
// Usage:
//
//	revlist                          # report every configured repository
//	revlist -s older -v 2 -d d       # only reviews open for two days or more
//	revlist -f json --reverse        # newest first, as a JSON array
//
// See https://github.com/jcline/revlist for full documentation.
package main
