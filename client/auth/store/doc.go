// Package store defines the credential store used by the session manager in
// the sibling `session` package.
//
// A store keeps exactly one bearer token. It ships with an in-memory
// implementation for tests, a JSON file store backed by github.com/viant/afs,
// an encrypted variant backed by github.com/viant/scy and a Redis store for
// hosts sharing a credential slot.
package store
