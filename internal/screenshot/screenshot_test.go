package screenshot

import (
	"context"
	"errors"
	"testing"
)

// TestTakeNeverFails verifies errors and panics degrade to an empty image.
func TestTakeNeverFails(t *testing.T) {
	ctx := context.Background()
	if image := Take(ctx, None{}, Target{}, nil); image != nil {
		t.Fatalf("expected no image from None")
	}
	failing := Func(func(context.Context, Target) ([]byte, error) { return nil, errors.New("boom") })
	if image := Take(ctx, failing, Target{QuestionID: "q1"}, nil); image != nil {
		t.Fatalf("expected no image on error")
	}
	panicking := Func(func(context.Context, Target) ([]byte, error) { panic("bad tab") })
	if image := Take(ctx, panicking, Target{}, nil); image != nil {
		t.Fatalf("expected no image on panic")
	}
	if image := Take(ctx, nil, Target{}, nil); image != nil {
		t.Fatalf("expected no image without provider")
	}
}

// TestTakeReturnsImage verifies a successful capture passes through.
func TestTakeReturnsImage(t *testing.T) {
	var seen Target
	provider := Func(func(_ context.Context, target Target) ([]byte, error) {
		seen = target
		return []byte("png"), nil
	})
	image := Take(context.Background(), provider, Target{QuestionID: "q2", Selector: "html > body"}, nil)
	if string(image) != "png" || seen.Selector != "html > body" {
		t.Fatalf("unexpected capture %q for %+v", image, seen)
	}
}
