package auth

// Package auth provides credential verification and browser sessions.
//
// - Passwords are stored as crypt(5) hashes ($6$ for new hashes) and verified
//   with a matching check, never reversed.
// - A session is an HS256-signed token bound to a username and role, carried
//   in a cookie by the server package.
