package events

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var sampleTypes = []EventType{EventTypeFeeding, EventTypeMedication, EventTypeDiaper, "bath"}

func eventsFrom(ms []int64) []Event {
	out := make([]Event, 0, len(ms))
	for i, m := range ms {
		out = append(out, Event{
			Type: sampleTypes[i%len(sampleTypes)],
			Time: time.UnixMilli(m).UTC(),
			Who:  "olive",
			Name: fmt.Sprintf("n%d", i),
		})
	}
	return out
}

func keys(evs []Event) []string {
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, fmt.Sprintf("%s|%s|%s", FormatTime(e.Time), e.Type, e.Name))
	}
	sort.Strings(out)
	return out
}

func TestProperty_GroupByType(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	times := gen.SliceOf(gen.Int64Range(1_400_000_000_000, 1_900_000_000_000))

	properties.Property("groups are sorted newest first", prop.ForAll(
		func(ms []int64) bool {
			g := GroupByType(eventsFrom(ms))
			for _, evs := range g {
				for i := 1; i < len(evs); i++ {
					if evs[i-1].Time.Before(evs[i].Time) {
						return false
					}
				}
			}
			return true
		},
		times,
	))

	properties.Property("flatten after grouping recovers the input set", prop.ForAll(
		func(ms []int64) bool {
			in := eventsFrom(ms)
			got := keys(GroupByType(in).Flatten())
			want := keys(in)
			if len(got) != len(want) {
				return false
			}
			for i := range got {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		},
		times,
	))

	properties.Property("every event lands in its own type", prop.ForAll(
		func(ms []int64) bool {
			for typ, evs := range GroupByType(eventsFrom(ms)) {
				for _, e := range evs {
					if e.Type != typ {
						return false
					}
				}
			}
			return true
		},
		times,
	))

	properties.TestingRun(t)
}

func TestGroupByType_DoesNotMutateInput(t *testing.T) {
	in := eventsFrom([]int64{1_500_000_000_000, 1_600_000_000_000})
	_ = GroupByType(in)
	if !in[0].Time.Before(in[1].Time) {
		t.Fatalf("input order changed")
	}
}

func TestGroups_OfNil(t *testing.T) {
	var g Groups
	if got := g.Of(EventTypeFeeding); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestWithName(t *testing.T) {
	evs := []Event{
		{Type: EventTypeMedication, Name: "tylenol", Time: time.Unix(30, 0)},
		{Type: EventTypeMedication, Name: "ibuprofen", Time: time.Unix(20, 0)},
		{Type: EventTypeMedication, Name: "tylenol", Time: time.Unix(10, 0)},
	}
	got := WithName(evs, "tylenol")
	if len(got) != 2 || got[0].Time.Unix() != 30 || got[1].Time.Unix() != 10 {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}

func TestEventJSON(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	b, err := json.Marshal(Event{Type: EventTypeDiaper, Time: at, Who: "olive", Poop: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"diaper","time":"2026-10-17T09:30:00.000Z","who":"olive","poop":true,"pee":false}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}

	b, err = json.Marshal(Event{Type: EventTypeMedication, Time: at, Who: "andrea", Name: "tylenol"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want = `{"type":"medication","time":"2026-10-17T09:30:00.000Z","who":"andrea","name":"tylenol"}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}

	var e Event
	if err := json.Unmarshal([]byte(`{"type":"feeding","time":"2026-10-17T11:30:00+02:00","who":"olive"}`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !e.Time.Equal(at) {
		t.Fatalf("expected %v, got %v", at, e.Time)
	}

	if err := json.Unmarshal([]byte(`{"type":"feeding","time":"yesterday"}`), &e); err == nil {
		t.Fatalf("expected error for invalid time")
	}
}
