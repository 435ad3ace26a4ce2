package request

import (
	"errors"
	"testing"

	"github.com/calyptra/retrievex/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	req, err := New("how do I reset my password", 7, 10, true, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Query() != "how do I reset my password" {
		t.Errorf("unexpected query %q", req.Query())
	}
	if req.Owner().ID() != 7 {
		t.Errorf("expected owner 7, got %d", req.Owner().ID())
	}
	if req.K() != 10 {
		t.Errorf("expected k=10, got %d", req.K())
	}
	if !req.UseHybrid() {
		t.Error("expected hybrid enabled")
	}
	if req.VectorWeight() != 0.5 {
		t.Errorf("expected vector weight 0.5, got %g", req.VectorWeight())
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	_, err := New("", 7, 5, true, 0)
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestNew_MissingOwnerFailsFast(t *testing.T) {
	for _, owner := range []int64{0, -1} {
		_, err := New("query", owner, 5, true, 0)
		if !errors.Is(err, domain.ErrMissingOwner) {
			t.Errorf("owner=%d: expected ErrMissingOwner, got %v", owner, err)
		}
	}
}

func TestNew_KDefaults(t *testing.T) {
	for _, k := range []int{0, -3} {
		req, err := New("query", 7, k, true, 0)
		if err != nil {
			t.Fatalf("k=%d: unexpected error: %v", k, err)
		}
		if req.K() != DefaultK {
			t.Errorf("k=%d: expected default %d, got %d", k, DefaultK, req.K())
		}
	}
}

func TestNew_KTooLarge(t *testing.T) {
	if _, err := New("query", 7, MaxK+1, true, 0); err == nil {
		t.Fatal("expected error for k above the maximum")
	}
	if _, err := New("query", 7, MaxK, true, 0); err != nil {
		t.Fatalf("k=MaxK must be accepted: %v", err)
	}
}

func TestNew_VectorWeightBounds(t *testing.T) {
	for _, w := range []float64{-0.1, 1.1} {
		if _, err := New("query", 7, 5, true, w); err == nil {
			t.Errorf("weight=%g: expected error", w)
		}
	}
	for _, w := range []float64{0, 1} {
		if _, err := New("query", 7, 5, true, w); err != nil {
			t.Errorf("weight=%g: unexpected error: %v", w, err)
		}
	}
}
