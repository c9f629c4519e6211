// Package connectors holds the clients used to federate search queries
// out to external systems. Each subpackage implements the
// driven.ConnectorClient port for one kind of external system; this
// package carries the shared rate limiting they all use.
//
// Connector calls are the slowest and least reliable part of a
// federated query, so every client bounds its own request rate and
// the remote client additionally wraps calls in retry and a circuit
// breaker.
package connectors
