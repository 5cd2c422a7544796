package proto

import (
	"encoding/json"
	"time"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// LoginRequest opens a session for one device.
type LoginRequest struct {
	DeviceID string `json:"deviceId"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type CreateRequest struct {
	Kind   string          `json:"kind"`
	Record json.RawMessage `json:"record"`
}

type UpdateRequest struct {
	Kind  string          `json:"kind"`
	ID    string          `json:"id"`
	Patch json.RawMessage `json:"patch"`
}

// RecordResponse carries the stored form of one record.
type RecordResponse struct {
	Record json.RawMessage `json:"record"`
}

type DeleteRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type DeleteResponse struct{}

type ListRequest struct {
	Kind string `json:"kind"`
}

type BulkCreateRequest struct {
	Kind    string            `json:"kind"`
	Records []json.RawMessage `json:"records"`
}

// RecordsResponse carries stored records; for BulkCreate they are in
// request order.
type RecordsResponse struct {
	Records []json.RawMessage `json:"records"`
}
