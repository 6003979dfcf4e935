package translate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Generate(t *testing.T) {
	client := NewClient(New(), WithLatency(0))

	resp, err := client.Generate(context.Background(), "Require manager approval for expenses over $500")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if len(resp.Containers) != 1 {
		t.Fatalf("len(Containers) = %d, want exactly 1", len(resp.Containers))
	}
	if resp.Explanation == "" {
		t.Error("missing explanation")
	}
	if !client.Apply(resp) {
		t.Error("Apply() = false for the only outstanding request")
	}
}

func TestClient_TransportFailure(t *testing.T) {
	transportErr := errors.New("backend unreachable")
	client := NewClient(New(), WithTransport(func(ctx context.Context) error {
		return transportErr
	}))

	resp, err := client.Generate(context.Background(), "anything")
	if !errors.Is(err, transportErr) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if resp != nil {
		t.Error("response should be nil on transport failure")
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	client := NewClient(New(), WithLatency(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Generate(ctx, "anything"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

// A response from an earlier request must not be applied once a newer
// request has been issued, even if the earlier response arrives last.
func TestClient_StaleResponseDropped(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	client := NewClient(New(), WithTransport(func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			// First request is slow: wait until released.
			select {
			case <-release:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}))

	type outcome struct {
		resp *Response
		err  error
	}
	firstDone := make(chan outcome, 1)

	first := make(chan struct{})
	go func() {
		close(first)
		resp, err := client.Generate(context.Background(), "slow request")
		firstDone <- outcome{resp, err}
	}()
	<-first
	// Give the first request time to enter the transport before issuing the
	// second one.
	time.Sleep(10 * time.Millisecond)

	second, err := client.Generate(context.Background(), "fast request")
	if err != nil {
		t.Fatalf("second Generate() failed: %v", err)
	}
	if !client.Apply(second) {
		t.Error("Apply() = false for the newest response")
	}

	// Now let the first (stale) response arrive.
	close(release)
	out := <-firstDone
	if out.err != nil {
		t.Fatalf("first Generate() failed: %v", out.err)
	}
	if client.Apply(out.resp) {
		t.Error("Apply() = true for a stale response; last request must win")
	}
}

// Tokens increase monotonically with each issued request.
func TestClient_RequestTokens(t *testing.T) {
	client := NewClient(New(), WithLatency(0))

	var last uint64
	for i := 0; i < 5; i++ {
		resp, err := client.Generate(context.Background(), "x")
		if err != nil {
			t.Fatalf("Generate() failed: %v", err)
		}
		if resp.Seq <= last {
			t.Fatalf("Seq = %d, want > %d", resp.Seq, last)
		}
		last = resp.Seq
	}
}
