// Package session tracks one ESME session: bind state, which commands are
// legal in each state, sequence assignment and request/response correlation.
//
// Ownership boundary:
// - bind state machine and the command legality table
// - sequence number generation
// - pending request table keyed by sequence number
//
// The codec lives in protocol/pdu. Sockets live in internal/transport.
package session
