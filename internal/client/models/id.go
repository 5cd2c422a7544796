package models

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/google/uuid"
)

// ID identifies a record. It is either durable (assigned by the backend, a
// decimal integer) or provisional (assigned on the device, prefixed with
// common.ProvisionalIDPrefix). The empty ID means "no reference".
type ID string

// NewProvisionalID returns a fresh device-local identifier.
func NewProvisionalID() ID {
	return ID(common.ProvisionalIDPrefix + uuid.NewString())
}

// DurableID formats a backend-assigned numeric id.
func DurableID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

func (id ID) IsProvisional() bool {
	return strings.HasPrefix(string(id), common.ProvisionalIDPrefix)
}

func (id ID) IsZero() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}
