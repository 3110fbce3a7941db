package services_test

import (
	"context"
	"testing"

	"shelfscan/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithVideo(ctx, "/videos/garage.mov")
	ctx = services.WithPhase(ctx, "transcribing-audio")
	ctx = services.WithRequestID(ctx, "req-42")

	if v, ok := services.VideoFromContext(ctx); !ok || v != "/videos/garage.mov" {
		t.Fatalf("video not round-tripped: %q %v", v, ok)
	}
	if p, ok := services.PhaseFromContext(ctx); !ok || p != "transcribing-audio" {
		t.Fatalf("phase not round-tripped: %q %v", p, ok)
	}
	if id, ok := services.RequestIDFromContext(ctx); !ok || id != "req-42" {
		t.Fatalf("request id not round-tripped: %q %v", id, ok)
	}
}

func TestContextEmptyValuesIgnored(t *testing.T) {
	ctx := services.WithPhase(context.Background(), "")
	if _, ok := services.PhaseFromContext(ctx); ok {
		t.Fatal("empty phase should not be stored")
	}
}
