// Package schema defines the wire types exchanged with the CaseFlow API:
// identity, login payloads, published tasks and API errors.
package schema
