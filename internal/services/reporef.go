package services

import "net/url"

// RepoRef is a resolved repository reference. Exactly one of three shapes
// holds: both fields set (token contained a separator), UserName only (bare
// owner token), or RepoName only (Gerrit project path, query-escaped).
type RepoRef struct {
	UserName string
	RepoName string
}

func (r RepoRef) String() string {
	switch {
	case r.UserName != "" && r.RepoName != "":
		return r.UserName + "/" + r.RepoName
	case r.UserName != "":
		return r.UserName
	default:
		return r.RepoName
	}
}

// ResolveRepoRef turns a raw configuration token into a RepoRef using the
// escaping rules of the given service type.
//
// Gerrit keys changes by project path, where "/" is a legal path character:
// the whole token is query-escaped (space to "+", "/" to "%2F") so it can be
// embedded in a change query, and lands in RepoName. For every other service
// the token splits on the first "/" only — repository names may themselves
// contain "/" on some hosts — and a token with no separator is an owner-wide
// reference.
//
// ResolveRepoRef never fails: malformed tokens surface later as a fetch
// error from the client, not here.
func ResolveRepoRef(token, serviceType string) RepoRef {
	if serviceType == TypeGerrit {
		return RepoRef{RepoName: url.QueryEscape(token)}
	}
	for i := 0; i < len(token); i++ {
		if token[i] == '/' {
			return RepoRef{UserName: token[:i], RepoName: token[i+1:]}
		}
	}
	return RepoRef{UserName: token}
}
