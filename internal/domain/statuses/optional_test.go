package statuses

import (
	"encoding/json"
	"testing"
)

func TestPartialUpdate_Unmarshal_DistinguishesAbsentAndNull(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantSet   bool
		wantValue *bool
	}{
		{name: "absent key carries forward", body: `{}`, wantSet: false, wantValue: nil},
		{name: "explicit null clears", body: `{"in_shelter": null}`, wantSet: true, wantValue: nil},
		{name: "true", body: `{"in_shelter": true}`, wantSet: true, wantValue: boolPtr(true)},
		{name: "false", body: `{"in_shelter": false}`, wantSet: true, wantValue: boolPtr(false)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var upd PartialUpdate
			if err := json.Unmarshal([]byte(tc.body), &upd); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			if upd.InShelter.Set != tc.wantSet {
				t.Fatalf("Set: got %v want %v", upd.InShelter.Set, tc.wantSet)
			}
			if !eq(upd.InShelter.Value, tc.wantValue) {
				t.Fatalf("Value: got %v want %v", upd.InShelter.Value, tc.wantValue)
			}
		})
	}
}

func TestPartialUpdate_Unmarshal_RejectsNonBool(t *testing.T) {
	var upd PartialUpdate
	if err := json.Unmarshal([]byte(`{"in_shelter": "yes"}`), &upd); err == nil {
		t.Fatalf("expected error for non-boolean value")
	}
}

func TestPartialUpdate_Unmarshal_IndependentFields(t *testing.T) {
	var upd PartialUpdate
	if err := json.Unmarshal([]byte(`{"safe_after_alarm": true}`), &upd); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if upd.InShelter.Set {
		t.Fatalf("in_shelter was absent, must not be marked set")
	}
	if !upd.SafeAfterAlarm.Set || !eq(upd.SafeAfterAlarm.Value, boolPtr(true)) {
		t.Fatalf("safe_after_alarm: got %+v", upd.SafeAfterAlarm)
	}
}
