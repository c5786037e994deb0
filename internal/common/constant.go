package common

// AuthorizationHeader carries the bearer token on every protected request.
const AuthorizationHeader = "Authorization"

// BearerScheme is the authorization scheme accepted by the request filter.
const BearerScheme = "Bearer"

// DateLayout is the wire format of task service dates (yyyy-MM-dd).
const DateLayout = "2006-01-02"
