// Package identity implements Pago's account subsystem: the credential store
// boundary and the Signup/Login service composing store, password hasher,
// and token codec.
//
// Error contract: every failure crossing this package's boundary is one of
// the sentinel kinds in kinds.go, wrapped in a typed error from errors.go.
// Raw collaborator failures (driver errors etc.) never escape.
package identity
