// Package transport implements the shared http.RoundTripper every CaseFlow
// request passes through.
//
// The RoundTripper itself carries no policy: the session manager installs a
// request hook attaching the bearer credential and a response hook reacting to
// `401 Unauthorized`. Context helpers let a single request pin its credential
// or opt out of authentication entirely.
package transport
