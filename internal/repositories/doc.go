// Package repositories implements SQLite persistence for the CLI's local state.
//
// Two stores back the client between runs:
//   - [TokenRepository] : the access/refresh token pair, keyed by name in the
//     credentials table. Implements services.TokenStore.
//   - [DraftRepository] : in-progress wizard drafts so an interrupted run can
//     resume where it left off.
//
// Both operate on the schema created by the embedded migrations in the
// shared package.
package repositories
