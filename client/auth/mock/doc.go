// Package mock provides an in-process CaseFlow API used to test the client
// side session flow.
//
// It issues HS256 JWT access tokens, serves the identity endpoint and a few
// protected report resources, and lets tests revoke tokens or replace any
// handler to inject failures and delays.
package mock
