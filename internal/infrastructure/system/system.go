// Package system provee las implementaciones de reloj e IDs usadas en producción.
package system

import (
	"time"

	"github.com/google/uuid"
)

// Clock reloj del sistema en UTC.
type Clock struct{}

func (Clock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator genera UUID v4.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.New().String() }
