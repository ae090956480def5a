package xquant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/percy-xu/xquant/date"
)

func TestNewEqualWeight(t *testing.T) {
	m := testMarket(t)

	if _, err := NewEqualWeight(m); err == nil {
		t.Error("empty universe should be an error")
	}
	if _, err := NewEqualWeight(m, "600519.SH", "999999.SH"); !errors.Is(err, ErrUnknownTicker) {
		t.Errorf("unknown ticker error = %v, want ErrUnknownTicker", err)
	}

	s, err := NewEqualWeight(m, "600519.SH", "000001.SZ")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != "equal-weight" {
		t.Errorf("Name() = %q", s.Name())
	}
}

func TestEqualWeightSelect(t *testing.T) {
	m := testMarket(t)
	s, err := NewEqualWeight(m, "600519.SH", "000001.SZ")
	if err != nil {
		t.Fatal(err)
	}

	// Jan 5: 600519.SH closes at 102, 000001.SZ at 21. Each ticker gets
	// 5000 to spend, whole shares only.
	p, err := s.Select(context.Background(), M(10000, "CNY"), date.New(2021, time.January, 5))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Long("600519.SH"); !got.Equal(Q(49)) {
		t.Errorf("600519.SH = %s, want 49", got)
	}
	if got := p.Long("000001.SZ"); !got.Equal(Q(238)) {
		t.Errorf("000001.SZ = %s, want 238", got)
	}
	// 10000 - 49*102 - 238*21 leaves 4 in cash.
	if want := M(4, "CNY"); !p.Cash().Equal(want) {
		t.Errorf("cash = %s, want %s", p.Cash(), want)
	}
}

func TestEqualWeightSkipsSuspended(t *testing.T) {
	m := testMarket(t)
	s, err := NewEqualWeight(m, "600519.SH", "000001.SZ")
	if err != nil {
		t.Fatal(err)
	}

	// 000001.SZ is suspended on Jan 6; its allocation stays in cash.
	p, err := s.Select(context.Background(), M(10000, "CNY"), date.New(2021, time.January, 6))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Long("000001.SZ"); !got.IsZero() {
		t.Errorf("000001.SZ = %s, want no position", got)
	}
	if got := p.Long("600519.SH"); !got.Equal(Q(49)) {
		t.Errorf("600519.SH = %s, want 49", got)
	}
	if want := M(10000-49*101, "CNY"); !p.Cash().Equal(want) {
		t.Errorf("cash = %s, want %s", p.Cash(), want)
	}
}

func TestEqualWeightSnapsToTradingDay(t *testing.T) {
	m := testMarket(t)
	s, err := NewEqualWeight(m, "600519.SH", "000001.SZ")
	if err != nil {
		t.Fatal(err)
	}

	// Saturday Jan 9 snaps back to Friday the 8th, at closes 104 and 22.
	p, err := s.Select(context.Background(), M(10000, "CNY"), date.New(2021, time.January, 9))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Long("600519.SH"); !got.Equal(Q(48)) {
		t.Errorf("600519.SH = %s, want 48", got)
	}
	if got := p.Long("000001.SZ"); !got.Equal(Q(227)) {
		t.Errorf("000001.SZ = %s, want 227", got)
	}
}

func TestEqualWeightCancelled(t *testing.T) {
	m := testMarket(t)
	s, err := NewEqualWeight(m, "600519.SH")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Select(ctx, M(10000, "CNY"), date.New(2021, time.January, 5)); !errors.Is(err, context.Canceled) {
		t.Errorf("Select() = %v, want context.Canceled", err)
	}
}
