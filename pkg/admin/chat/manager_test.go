package chat

import (
	"testing"

	"nexusai-be/internal/dto"
	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/internal/repository/specification"
)

func TestListSpecsDateRange(t *testing.T) {
	specs, err := listSpecs(dto.AdminChatListRequest{
		DateFrom: "2026-01-01T00:00:00Z",
		DateTo:   "2026-02-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("listSpecs() error = %v", err)
	}

	var hasSince, hasUntil bool
	for _, s := range specs {
		switch s.(type) {
		case specification.ActivitySince:
			hasSince = true
		case specification.ActivityUntil:
			hasUntil = true
		}
	}
	if !hasSince {
		t.Error("dateFrom did not produce an ActivitySince filter")
	}
	if !hasUntil {
		t.Error("dateTo did not produce an ActivityUntil filter")
	}
}

func TestListSpecsInvalidDates(t *testing.T) {
	tests := []struct {
		name string
		req  dto.AdminChatListRequest
	}{
		{"bad dateFrom", dto.AdminChatListRequest{DateFrom: "yesterday"}},
		{"bad dateTo", dto.AdminChatListRequest{DateTo: "tomorrow"}},
		{"bad user id", dto.AdminChatListRequest{UserId: "not-a-uuid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := listSpecs(tt.req)
			if err == nil {
				t.Fatal("listSpecs() error = nil, want validation error")
			}
			if _, ok := err.(*apperrors.ValidationError); !ok {
				t.Errorf("error type = %T, want *apperrors.ValidationError", err)
			}
		})
	}
}

func TestListSpecsAlwaysScopesToAuthenticated(t *testing.T) {
	specs, err := listSpecs(dto.AdminChatListRequest{})
	if err != nil {
		t.Fatalf("listSpecs() error = %v", err)
	}
	for _, s := range specs {
		if _, ok := s.(specification.Authenticated); ok {
			return
		}
	}
	t.Error("listSpecs() missing the Authenticated scope")
}
