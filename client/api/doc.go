// Package api implements the CaseFlow HTTP API client: login, identity and
// the report resources (tasks, forms, datasets).
//
// The client performs no authentication itself; pass an http.Client whose
// transport carries the session hooks (see client/auth/transport).
package api
