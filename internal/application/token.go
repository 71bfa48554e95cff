package application

import (
	"time"

	"github.com/google/uuid"
)

// UUIDTokenGenerator issues random update tokens with a fixed validity
// window.
type UUIDTokenGenerator struct {
	Validity time.Duration
}

func NewUUIDTokenGenerator(validity time.Duration) *UUIDTokenGenerator {
	return &UUIDTokenGenerator{Validity: validity}
}

func (g *UUIDTokenGenerator) NewToken() string {
	return uuid.New().String()
}

func (g *UUIDTokenGenerator) NewExpiry(now time.Time) time.Time {
	return now.Add(g.Validity)
}
