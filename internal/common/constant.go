package common

// AuthorizationHeaderName carries the bearer credential on inbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme accepted by the API.
const BearerScheme = "bearer"

// DefaultCurrency is applied to users and transactions created without one.
const DefaultCurrency = "EUR"

// DefaultRole is assigned to every account created through signup.
const DefaultRole = "user"
