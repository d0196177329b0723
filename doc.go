// Package caseflow provides a client for the CaseFlow report dashboard API.
//
// The package glues the credential stores, the shared HTTP transport, the
// session manager, the API client and the report cache into a single Client.
//
// Example:
//
//	cli, _ := caseflow.New(ctx, &caseflow.Options{BaseURL: "http://localhost:8000/api"})
//	defer cli.Close()
//	user, err := cli.Login(ctx, "admin", "admin123")
package caseflow
