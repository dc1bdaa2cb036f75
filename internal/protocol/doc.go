// Package protocol owns the SMPP 3.4 wire contract shared by every layer.
//
// Ownership boundary:
// - error taxonomy
// - command code registry (command_id <-> symbolic name)
// - command_status codes and descriptions
// - protocol constants (versions, TON/NPI, data coding, esm_class bits)
//
// Encoding lives in the frame, tlv, schema and pdu sub-packages; bind state and
// sequencing live in session.
package protocol
