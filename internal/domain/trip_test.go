package domain

import (
	"errors"
	"testing"
)

func newTestTrip() *Trip {
	return &Trip{
		TripID: "trip-1",
		Stops: []*TripStop{
			{StopID: "s1", Place: Place{PlaceID: "A", Type: PlaceHotel}, Sequence: 1},
			{StopID: "s2", Place: Place{PlaceID: "B", Type: PlaceRestaurant}, Sequence: 2},
			{StopID: "s3", Place: Place{PlaceID: "C", Type: PlaceThingToDo}, Sequence: 3},
			{StopID: "s4", Place: Place{PlaceID: "D", Type: PlaceThingToDo}, Sequence: 4},
		},
	}
}

func placeOrder(t *Trip) []string {
	out := make([]string, 0, len(t.Stops))
	for _, s := range t.Stops {
		out = append(out, s.Place.PlaceID)
	}
	return out
}

func assertSequences(t *testing.T, trip *Trip) {
	t.Helper()
	for i, s := range trip.Stops {
		if s.Sequence != i+1 {
			t.Errorf("stop %s sequence = %d, want %d", s.StopID, s.Sequence, i+1)
		}
	}
}

func TestTripApplyOptimizedOrder(t *testing.T) {
	// build test data
	trip := newTestTrip()

	// call the method under test
	if err := trip.ApplyOptimizedOrder([]int{0, 2, 3, 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// verify behavior
	got := placeOrder(trip)
	want := []string{"A", "C", "D", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	assertSequences(t, trip)

	if !trip.IsOptimized {
		t.Errorf("IsOptimized = false, want true")
	}
}

func TestTripApplyOptimizedOrderRejectsInvalid(t *testing.T) {
	cases := map[string][]int{
		"short":     {0, 1, 2},
		"duplicate": {0, 1, 1, 2},
		"range":     {0, 1, 2, 4},
	}

	for name, order := range cases {
		trip := newTestTrip()
		err := trip.ApplyOptimizedOrder(order)
		if !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("%s: err = %v, want ErrInvalidOrder", name, err)
		}
		if trip.IsOptimized {
			t.Errorf("%s: trip marked optimized after failed apply", name)
		}
		if got := placeOrder(trip); got[0] != "A" || got[3] != "D" {
			t.Errorf("%s: stops changed after failed apply: %v", name, got)
		}
	}
}

func TestTripReorder(t *testing.T) {
	trip := newTestTrip()
	trip.IsOptimized = true

	if err := trip.Reorder([]string{"C", "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := placeOrder(trip)
	want := []string{"C", "A", "B", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	assertSequences(t, trip)

	if trip.IsOptimized {
		t.Errorf("IsOptimized = true after manual reorder")
	}
}

func TestTripReorderErrors(t *testing.T) {
	trip := newTestTrip()
	if err := trip.Reorder([]string{"Z"}); !errors.Is(err, ErrUnknownPlace) {
		t.Errorf("unknown place: err = %v, want ErrUnknownPlace", err)
	}
	if err := trip.Reorder([]string{"A", "A"}); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("duplicate place: err = %v, want ErrInvalidOrder", err)
	}
}

func TestTripNormalize(t *testing.T) {
	trip := &Trip{
		Stops: []*TripStop{
			{StopID: "b", Sequence: 5},
			{StopID: "a", Sequence: 5},
			{StopID: "c", Sequence: 0},
		},
	}

	trip.Normalize()

	ids := []string{trip.Stops[0].StopID, trip.Stops[1].StopID, trip.Stops[2].StopID}
	if ids[0] != "c" || ids[1] != "a" || ids[2] != "b" {
		t.Fatalf("order = %v, want [c a b]", ids)
	}
	assertSequences(t, trip)
}

func TestTripCountByType(t *testing.T) {
	counts := newTestTrip().CountByType()
	if counts[PlaceHotel] != 1 || counts[PlaceRestaurant] != 1 || counts[PlaceThingToDo] != 2 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestTripRouteTotalDistanceKm(t *testing.T) {
	if km := (TripRoute{}).TotalDistanceKm(); km != nil {
		t.Fatalf("km = %v, want nil", *km)
	}

	meters := 12345
	km := TripRoute{TotalDistanceMeters: &meters}.TotalDistanceKm()
	if km == nil || *km != 12.35 {
		t.Fatalf("km = %v, want 12.35", km)
	}
}

func TestTripAddStop(t *testing.T) {
	trip := newTestTrip()
	trip.IsOptimized = true

	stop := &TripStop{StopID: "s5", Place: Place{PlaceID: "E", Type: PlaceHotel}}
	if err := trip.AddStop(stop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stop.Sequence != 5 {
		t.Errorf("new stop sequence = %d, want 5", stop.Sequence)
	}
	if got := placeOrder(trip); len(got) != 5 || got[4] != "E" {
		t.Fatalf("order = %v, want E appended", got)
	}
	assertSequences(t, trip)
	if trip.IsOptimized {
		t.Errorf("IsOptimized = true after adding a stop")
	}
}

func TestTripAddStopRejectsDuplicatePlace(t *testing.T) {
	trip := newTestTrip()
	trip.IsOptimized = true

	err := trip.AddStop(&TripStop{StopID: "s5", Place: Place{PlaceID: "B"}})
	if !errors.Is(err, ErrDuplicatePlace) {
		t.Fatalf("err = %v, want ErrDuplicatePlace", err)
	}
	if len(trip.Stops) != 4 || !trip.IsOptimized {
		t.Errorf("trip changed after rejected add: stops=%d optimized=%t", len(trip.Stops), trip.IsOptimized)
	}
}

func TestTripRemoveStop(t *testing.T) {
	trip := newTestTrip()
	trip.IsOptimized = true

	removed, err := trip.RemoveStop("B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed.StopID != "s2" {
		t.Errorf("removed stop = %s, want s2", removed.StopID)
	}

	got := placeOrder(trip)
	want := []string{"A", "C", "D"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	assertSequences(t, trip)
	if trip.IsOptimized {
		t.Errorf("IsOptimized = true after removing a stop")
	}

	if _, err := trip.RemoveStop("B"); !errors.Is(err, ErrUnknownPlace) {
		t.Errorf("second remove: err = %v, want ErrUnknownPlace", err)
	}
}
