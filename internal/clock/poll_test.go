package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoll(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		setup     func(t *testing.T) (context.Context, func(context.Context) (bool, error))
		wantErr   error
		wantCalls int
		expectMin time.Duration
	}{
		{
			name: "stops when done",
			setup: func(_ *testing.T) (context.Context, func(context.Context) (bool, error)) {
				calls := 0
				return context.Background(), func(context.Context) (bool, error) {
					calls++
					return calls == 3, nil
				}
			},
			wantCalls: 3,
			expectMin: 10 * time.Millisecond,
		},
		{
			name: "returns check error",
			setup: func(_ *testing.T) (context.Context, func(context.Context) (bool, error)) {
				return context.Background(), func(context.Context) (bool, error) {
					return false, boom
				}
			},
			wantErr:   boom,
			wantCalls: 1,
		},
		{
			name: "returns when context canceled",
			setup: func(t *testing.T) (context.Context, func(context.Context) (bool, error)) {
				ctx, cancel := context.WithCancel(context.Background())
				t.Cleanup(cancel)
				time.AfterFunc(12*time.Millisecond, cancel)
				return ctx, func(context.Context) (bool, error) {
					return false, nil
				}
			},
			wantErr: context.Canceled,
		},
		{
			name: "does not check with canceled context",
			setup: func(t *testing.T) (context.Context, func(context.Context) (bool, error)) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, func(context.Context) (bool, error) {
					t.Errorf("check called after cancel")
					return true, nil
				}
			},
			wantErr:   context.Canceled,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, check := tt.setup(t)
			calls := 0
			counted := func(ctx context.Context) (bool, error) {
				calls++
				return check(ctx)
			}

			start := time.Now()
			err := Poll(ctx, 5*time.Millisecond, counted)
			elapsed := time.Since(start)

			if tt.wantErr == nil && err != nil {
				t.Fatalf("Poll() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Poll() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantCalls > 0 && calls != tt.wantCalls {
				t.Fatalf("Poll() checked %d times, want %d", calls, tt.wantCalls)
			}
			if tt.expectMin > 0 && elapsed < tt.expectMin {
				t.Fatalf("Poll() returned too early: elapsed %v, expected at least %v", elapsed, tt.expectMin)
			}
		})
	}
}
