// Package session owns the client side session: the bearer credential, the
// identity fetched for it and the state machine tying both together.
//
// A Manager is created over a store.Store and an IdentityFetcher. It seeds
// itself from the store, fetches the identity whenever a credential is set,
// discards fetch results issued for a credential (or generation) that is no
// longer current and exposes the result as a Snapshot, either polled or
// received through Subscribe.
//
// Install attaches the manager to the shared transport: outgoing requests get
// the bearer credential, and a 401 for the current credential clears it.
//
// Example:
//
//	rt := transport.New()
//	apiClient := api.New(baseURL, api.WithHTTPClient(&http.Client{Transport: rt}))
//	manager := session.New(store.NewFileStore(path), apiClient)
//	manager.Install(rt)
//	defer manager.Close()
package session
