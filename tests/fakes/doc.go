// Package fakes provides test doubles for bwsconnect collaborators.
//
// Fakes are manually implemented (not generated) to provide precise control
// over test behavior, including call counting and error injection.
//
// Usage:
//
//	store := fakes.NewFakeSecretStore()
//	store.AddSecret("db", `{"db":"postgres://..."}`)
//	resolver := resolve.New(store, fakes.FakeOrganizationID)
package fakes
