package telemetry

import (
	"context"
	"testing"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	t.Setenv(EndpointEnv, "")

	shutdown, err := Init(context.Background(), "runview", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown should be a no-op, got %v", err)
	}
}

func TestInitWithEndpoint(t *testing.T) {
	t.Setenv(EndpointEnv, "http://127.0.0.1:4318")

	shutdown, err := Init(context.Background(), "runview", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Nothing was recorded, so there is nothing to flush.
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}
