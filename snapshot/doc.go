// Package snapshot persists sequences to a self-describing binary format.
//
// A snapshot records the codec and compression used to write it, so a file
// can be opened without out-of-band knowledge. Integrity is protected by a
// CRC32 trailer; Load refuses files whose checksum does not match.
//
// CRC32 detects accidental corruption only. It is not a defense against
// tampering.
package snapshot
