package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/loekvdlooilionx/votejam/internal/auth"
	"github.com/loekvdlooilionx/votejam/internal/metrics"
	"github.com/loekvdlooilionx/votejam/internal/models"
)

type ping struct{}

func echoUser(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
	return connect.NewResponse(&ping{}), nil
}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate(&models.User{ID: "u1", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var seen string
	next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen = GetUserID(ctx)
		return echoUser(ctx, req)
	}
	handler := RequireAuth(manager)(next)

	tests := []struct {
		name   string
		header string
		wantOK bool
	}{
		{"valid", "Bearer " + token, true},
		{"lowercase scheme", "bearer " + token, true},
		{"missing", "", false},
		{"no scheme", token, false},
		{"wrong scheme", "Basic " + token, false},
		{"bad token", "Bearer nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := connect.NewRequest(&ping{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Expected success, got %v", err)
				}
				if seen != "u1" {
					t.Errorf("Expected user u1 in context, got %q", seen)
				}
				return
			}
			if connect.CodeOf(err) != connect.CodeUnauthenticated {
				t.Errorf("Expected Unauthenticated, got %v", err)
			}
			if seen != "" {
				t.Errorf("Handler should not run, saw user %q", seen)
			}
		})
	}
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := MetricsInterceptor(metrics.New(reg))(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeResourceExhausted, errors.New("no coins"))
	})

	if _, err := handler(context.Background(), connect.NewRequest(&ping{})); err == nil {
		t.Fatal("Expected error to pass through")
	}

	count, err := testutil.GatherAndCount(reg, "votejam_rpc_duration_seconds")
	if err != nil {
		t.Fatalf("GatherAndCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 histogram series, got %d", count)
	}
}

func TestIsServerCode(t *testing.T) {
	for _, code := range []connect.Code{connect.CodeInternal, connect.CodeUnavailable} {
		if !IsServerCode(code) {
			t.Errorf("%v should be a server code", code)
		}
	}
	for _, code := range []connect.Code{connect.CodeInvalidArgument, connect.CodePermissionDenied, connect.CodeResourceExhausted} {
		if IsServerCode(code) {
			t.Errorf("%v should be a client code", code)
		}
	}
}

func TestLoggingInterceptorPassesThrough(t *testing.T) {
	want := connect.NewError(connect.CodeNotFound, models.ErrGroupNotFound)
	handler := LoggingInterceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, want
	})

	_, err := handler(WithUser(context.Background(), "u1", "a@example.com"), connect.NewRequest(&ping{}))
	if !errors.Is(err, models.ErrGroupNotFound) {
		t.Errorf("Expected wrapped ErrGroupNotFound, got %v", err)
	}
}
