package common

// AuthorizationHeaderName carries the bearer access token on inbound requests.
const AuthorizationHeaderName = "Authorization"

// AdminKeyHeaderName carries the admin key for operator endpoints.
const AdminKeyHeaderName = "X-Admin-Key"
