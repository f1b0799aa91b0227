// Package aggregate fans fetches out across every configured
// (service, repository) pair and collects the results into one flat slice
// of records.
//
// Fetches run concurrently, bounded by a worker limit, and the run is
// atomic: either every pair succeeds and the full result set is returned,
// or the first failure cancels the outstanding fetches and the run returns
// that failure with no partial results.
package aggregate
