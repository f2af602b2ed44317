// Package screenshot captures question images for the remote model.
package screenshot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnavailable reports that no capture backend is attached.
var ErrUnavailable = errors.New("screenshot unavailable")

// Target addresses the element to capture.
type Target struct {
	QuestionID string
	Selector   string
}

// Provider captures a PNG of one element.
type Provider interface {
	Capture(ctx context.Context, target Target) ([]byte, error)
}

// None captures nothing. Snapshot files have no rendering.
type None struct{}

// Capture always returns ErrUnavailable.
func (None) Capture(context.Context, Target) ([]byte, error) {
	return nil, ErrUnavailable
}

// Func adapts a function to Provider.
type Func func(ctx context.Context, target Target) ([]byte, error)

// Capture calls f.
func (f Func) Capture(ctx context.Context, target Target) ([]byte, error) {
	return f(ctx, target)
}

// Take captures target and returns an empty image on any failure, so a
// broken capture never blocks answering.
func Take(ctx context.Context, provider Provider, target Target, logger *zap.Logger) []byte {
	if provider == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	image, err := capture(ctx, provider, target)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			logger.Warn("screenshot failed", zap.String("question", target.QuestionID), zap.Error(err))
		}
		return nil
	}
	return image
}

func capture(ctx context.Context, provider Provider, target Target) (image []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			image, err = nil, fmt.Errorf("screenshot panic: %v", r)
		}
	}()
	return provider.Capture(ctx, target)
}
