// Package common contains constants and sentinel errors shared by the client
// and server sides of fintrack.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// ProvisionalIDPrefix marks identifiers assigned on the device before the
// backend has acknowledged a record.
const ProvisionalIDPrefix = "temp_"
