package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// RateLimitRepository is a mock type for the RateLimitRepository type
type RateLimitRepository struct {
	mock.Mock
}

func (_m *RateLimitRepository) Allow(ctx context.Context, key string) (bool, int, int, error) {
	ret := _m.Called(ctx, key)

	return ret.Bool(0), ret.Int(1), ret.Int(2), ret.Error(3)
}
