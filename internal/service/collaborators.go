package service

import (
	"context"
	"time"
)

//go:generate mockgen -source=collaborators.go -destination=../mock/collaborators_mock.go -package=mock

// MediaVault erases the protected media collection. It is invoked only on
// the transition to the wiped state.
type MediaVault interface {
	WipeAllImages(ctx context.Context) error
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns a [Clock] backed by time.Now.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
