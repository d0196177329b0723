// Package cli implements the caseflow command line tool.
//
// The tool logs into a CaseFlow API, keeps the bearer token in a local file
// (optionally encrypted) or in Redis and fetches report resources on behalf
// of the logged in user.
package cli
