package common

// TokenCookieName is the HTTP cookie that carries the session token.
const TokenCookieName = "token"

// AuthorizationHeaderName is the header consulted when no cookie is present.
// The expected format is "Bearer <token>".
const AuthorizationHeaderName = "Authorization"
