// Package accounts implements the account lifecycle core for the hardware
// inventory service: registration with deferred email activation, password
// login, purpose-scoped signed tokens, and password reset.
//
// Lifecycle:
//   - Accounts are created unactivated. A short-lived activation token is
//     mailed out by a Dispatcher and exchanged through Activate to flip the
//     account to active. Login is rejected until that happens.
//   - Password resets follow the same shape: RequestPasswordReset issues a
//     reset token without ever confirming whether the email exists, and
//     ResetPassword exchanges it for a new password hash.
//
// Tokens:
//   - TokenService signs and verifies JWTs bound to a purpose (login,
//     activation, password-reset). Each purpose carries its own signing
//     secret and lifetime, so a token minted for one purpose can never be
//     replayed against another even if the verification code path is shared.
//
// Request gatekeeping lives in middleware/tokenware, which validates bearer
// login tokens and injects the request identity into the context. Outbound
// mail providers live in the notify package.
package accounts
