// Package services is the HTTP boundary between the CLI and the Forma API.
//
// # Client
//
// [Client] wraps net/http with bearer token injection from a [TokenStore].
// When a request comes back 401 the client performs exactly one refresh
// against the token endpoint and replays the request once. A failed or
// impossible refresh clears both stored tokens so the next run starts
// anonymous instead of looping on a dead session.
//
// # AuthService
//
// [AuthService] tracks the session lifecycle:
//
//	StateUnresolved → StateResolving → StateAuthenticated | StateAnonymous
//
// Bootstrap verifies a persisted token against the profile endpoint and
// degrades to anonymous on any failure. Login stores the issued token pair
// and loads the profile; Register only creates the account; Logout is
// purely local.
//
// # FormaService
//
// [FormaService] exposes one method per domain operation. PDF generation
// carries a per-instance in-flight guard, falls back to bounded status
// polling on 409, and validates the %PDF magic bytes before trusting a
// response body.
//
// # Error Handling
//
// Non-2xx responses decode once, at the boundary, into [*APIError] wrapping
// a sentinel from the shared package:
//   - [shared.ErrValidation] : 400/422
//   - [shared.ErrAuthFailed] : 401/403
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrConflict] : 409
//   - [shared.ErrServer] : everything else
//
// Transport failures wrap [shared.ErrNetwork] or [shared.ErrTimeout].
package services
