package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

type fakeChecker struct{ err error }

func (f *fakeChecker) HealthCheck(context.Context) error { return f.err }

func TestCheck_AllHealthy(t *testing.T) {
	s := New(&fakePinger{}, &fakeChecker{})

	report := s.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("expected %s, got %s", Healthy, report.Status)
	}
	if report.Checks["database"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Errorf("unexpected checks: %v", report.Checks)
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	s := New(&fakePinger{err: errors.New("connection refused")}, &fakeChecker{})

	report := s.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("expected %s, got %s", Degraded, report.Status)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("unexpected checks: %v", report.Checks)
	}
}

func TestCheck_EmbeddingDown(t *testing.T) {
	s := New(&fakePinger{}, &fakeChecker{err: errors.New("unauthorized")})

	report := s.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("expected %s, got %s", Degraded, report.Status)
	}
	if report.Checks["embedding"] != CheckError {
		t.Errorf("unexpected checks: %v", report.Checks)
	}
}

func TestCheck_NilEmbeddingChecker(t *testing.T) {
	s := New(&fakePinger{}, nil)

	report := s.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("expected %s, got %s", Healthy, report.Status)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("nil checker must not produce an embedding check")
	}
}
