// Package id generates opaque identifiers for sessions and serial numbers.
//
// Identifiers are UUIDv4 bytes encoded as base32 (RFC 4648) with no padding:
// 26 characters, lowercase, safe for URLs, log lines, and file paths.
package id
