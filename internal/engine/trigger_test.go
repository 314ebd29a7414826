package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPhaseTicks_OnlyMarkerSecond(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan time.Time)
	out := PhaseTicks(ctx, ticks, 0)

	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	go func() {
		for s := 0; s < 125; s++ {
			ticks <- base.Add(time.Duration(s) * time.Second)
		}
		close(ticks)
	}()

	var got []Trigger
	for tr := range out {
		got = append(got, tr)
	}
	if len(got) != 3 {
		t.Fatalf("expected one trigger per minute (3), got %d", len(got))
	}
	for _, tr := range got {
		if tr.Kind != TriggerTick || tr.At.Second() != 0 {
			t.Fatalf("unexpected trigger %+v", tr)
		}
	}
}

func TestTriggerSource_StartupThenMerged(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := TriggerSource{
		Resource: "events",
		Policy:   ReadPolicy{Mode: ReadLimit, Limit: 100},
		Marker:   30,
	}
	ticks := make(chan time.Time)
	refresh := make(chan Trigger)
	written := make(chan Trigger)
	reqs := src.Requests(ctx, ticks, refresh, written)

	first := collect(t, reqs, 1)[0]
	if first.Trigger != TriggerStartup || first.Method != MethodRead || first.Resource != "events" {
		t.Fatalf("unexpected first request %+v", first)
	}

	ticks <- time.Date(2026, 10, 17, 12, 0, 29, 0, time.UTC)
	ticks <- time.Date(2026, 10, 17, 12, 0, 30, 0, time.UTC)
	if r := collect(t, reqs, 1)[0]; r.Trigger != TriggerTick {
		t.Fatalf("expected tick read, got %+v", r)
	}

	refresh <- Trigger{Kind: TriggerRefresh}
	if r := collect(t, reqs, 1)[0]; r.Trigger != TriggerRefresh {
		t.Fatalf("expected refresh read, got %+v", r)
	}

	written <- Trigger{Kind: TriggerWrite}
	if r := collect(t, reqs, 1)[0]; r.Trigger != TriggerWrite || !r.IsRead() {
		t.Fatalf("expected read after write, got %+v", r)
	}
}

func TestReadPolicy_Query(t *testing.T) {
	q := ReadPolicy{Mode: ReadLimit, Limit: 100}.Query()
	if q.Get("orderBy") != `"time"` || q.Get("limitToLast") != "100" || q.Has("startAt") {
		t.Fatalf("unexpected limit query: %v", q)
	}

	since := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	q = ReadPolicy{Mode: ReadSince, Since: since}.Query()
	if q.Get("startAt") != `"2026-10-01T00:00:00.000Z"` || q.Has("limitToLast") {
		t.Fatalf("unexpected since query: %v", q)
	}
}

func TestReadPolicy_Validate(t *testing.T) {
	cases := []struct {
		name string
		p    ReadPolicy
		ok   bool
	}{
		{"limit", ReadPolicy{Mode: ReadLimit, Limit: 10}, true},
		{"limit zero", ReadPolicy{Mode: ReadLimit}, false},
		{"since", ReadPolicy{Mode: ReadSince, Since: time.Now()}, true},
		{"since missing", ReadPolicy{Mode: ReadSince}, false},
		{"unknown", ReadPolicy{Mode: "all"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidReadPolicy) {
				t.Fatalf("expected ErrInvalidReadPolicy, got %v", err)
			}
		})
	}

	if ParseReadMode(" SINCE ") != ReadSince || ParseReadMode("") != ReadLimit {
		t.Fatalf("unexpected ParseReadMode result")
	}
}
