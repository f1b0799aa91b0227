package services

import (
	"context"
	"fmt"
	"time"
)

// Record is the normalized representation of one open review request
// (pull request, merge request, or Gerrit change). Every client variant
// produces Records; the rest of the pipeline never sees service-specific
// response types.
type Record struct {
	// Time is when the review request was opened, normalized to UTC.
	// It is always set and is the sole sort key.
	Time  time.Time
	Title string
	URL   string

	// UserName and RepoName identify the owning repository. Either may be
	// empty: Gerrit keys changes by project path (RepoName only), and an
	// owner-wide fetch starts from a UserName with no RepoName.
	UserName string
	RepoName string

	// Optional extras. Not every backend exposes these; formatters must
	// tolerate their absence.
	Author       string
	CommentCount int
}

// Label returns the owning repository as a display string.
func (r Record) Label() string {
	switch {
	case r.UserName != "" && r.RepoName != "":
		return r.UserName + "/" + r.RepoName
	case r.UserName != "":
		return r.UserName
	default:
		return r.RepoName
	}
}

// RequestOptions carries the age filter applied by every client after
// decoding and before returning records.
type RequestOptions struct {
	// State is StateOlder, StateNewer, or empty for no age filtering.
	State string
	// Value and Duration define the threshold (e.g. 2 + "d" = two days).
	// Both are set or both are zero; config validation enforces this
	// before any client is invoked.
	Value    int
	Duration string
}

// ClientConfig carries per-service-entry connection settings.
type ClientConfig struct {
	// Token authenticates outbound calls. Optional for public data.
	Token string
	// Host overrides the service's default base URL for self-hosted
	// instances. Required for Gerrit, optional elsewhere.
	Host string
	// InsecureSkipVerify disables TLS certificate validation.
	InsecureSkipVerify bool
	// CACertPath adds a PEM bundle to the trusted root pool.
	CACertPath string
}

// Client is the polymorphic fetch capability implemented once per hosting
// service. RequestReviews is read-only and idempotent: it either returns a
// (possibly empty) slice of Records or a *ServiceError naming the repository
// it failed on. "No open reviews" is an empty slice, never an error.
type Client interface {
	RequestReviews(ctx context.Context, ref RepoRef, opts RequestOptions) ([]Record, error)
	Name() string
}

// Service type tags as they appear in configuration.
const (
	TypeGitHub = "github"
	TypeGitLab = "gitlab"
	TypePagure = "pagure"
	TypeGerrit = "gerrit"
)

// New creates a client by service type.
func New(serviceType string, cfg ClientConfig) (Client, error) {
	switch serviceType {
	case TypeGitHub:
		return NewGitHub(cfg)
	case TypeGitLab:
		return NewGitLab(cfg)
	case TypePagure:
		return NewPagure(cfg)
	case TypeGerrit:
		return NewGerrit(cfg)
	default:
		return nil, &UnknownServiceError{Type: serviceType}
	}
}

// UnknownServiceError reports a configuration service type with no
// registered client variant.
type UnknownServiceError struct {
	Type string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("unknown service type: %q", e.Type)
}

// ServiceError wraps a fetch failure with the service and repository
// reference it originated from.
type ServiceError struct {
	Service string
	Ref     RepoRef
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: fetching reviews for %s: %v", e.Service, e.Ref, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
