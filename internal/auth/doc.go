// Package auth provides authentication and authorisation for Shelfwise Core.
//
// It implements a two-tier role model (standard → admin) with:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Self-contained HS256 JWT access tokens (no server-side session state)
//   - A SQLite account store whose UNIQUE constraints arbitrate
//     concurrent registrations
//
// Tokens carry the subject, role, and timestamps and are verified by
// signature alone on every request — they are never re-checked against the
// store after issuance. A role change therefore only takes effect when the
// account next logs in; this staleness window is an explicit design
// property, not an oversight.
package auth
