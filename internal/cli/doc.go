// Package cli wires flags, configuration, and the aggregation pipeline
// into the revlist command. The root command runs a full aggregation; exit
// codes distinguish usage errors from fetch failures so the command can be
// scripted.
package cli
