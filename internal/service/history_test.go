package service

import (
	"context"
	"errors"
	"testing"

	"cafe-sklad-api/internal/model"
	"cafe-sklad-api/pkg/apierror"
)

func TestHistoryList_LimitFallback(t *testing.T) {
	history := &mockHistoryRepo{}
	for i := 0; i < 150; i++ {
		history.entries = append(history.entries, model.HistoryEntry{CafeID: "cafe-1"})
	}
	svc := NewHistoryService(history)

	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero falls back to default", 0, DefaultHistoryLimit},
		{"negative falls back to default", -5, DefaultHistoryLimit},
		{"over maximum falls back to default", 500, DefaultHistoryLimit},
		{"explicit limit honored", 10, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := svc.List(context.Background(), testSession(), tc.limit)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(entries) != tc.want {
				t.Errorf("got %d entries, want %d", len(entries), tc.want)
			}
		})
	}
}

func TestHistoryList_WithoutTenant(t *testing.T) {
	svc := NewHistoryService(&mockHistoryRepo{})
	sess := testSession()
	sess.CafeID = ""

	_, err := svc.List(context.Background(), sess, 10)
	if !errors.Is(err, apierror.Access("")) {
		t.Errorf("expected ACCESS_ERROR, got %v", err)
	}
}
