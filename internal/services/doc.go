// Package services implements the Client interface for each supported code
// hosting service.
//
// Supported services: GitHub (github.com or GitHub Enterprise), GitLab
// (gitlab.com or self-hosted), Pagure (pagure.io or self-hosted), and Gerrit
// (self-hosted, host required).
//
// Every client returns the same normalized [Record] type so that results from
// heterogeneous backends can be merged, filtered by age, and sorted together.
// The GitHub client is built on google/go-github with a rate-limit-aware
// transport; the remaining clients are plain JSON-over-HTTP and share a retry
// helper with exponential back-off. HTTP transports are injectable so tests
// can redirect calls to local httptest servers.
//
// Use [New] to obtain a Client by service type string.
package services
