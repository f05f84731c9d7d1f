package generichttp_test

import (
	"encoding/json"
	"go/types"
	"net/http/httptest"
	"testing"

	"github.com/gadamc/nipiezeojenapy/generichttp"
)

func TestSubMuxSanitize(t *testing.T) {
	cases := map[string]string{
		"omc/piezo":    "/omc/piezo/",
		"/omc/piezo":   "/omc/piezo/",
		"/omc/piezo/":  "/omc/piezo/",
		"/omc/piezo/*": "/omc/piezo/",
	}
	for in, want := range cases {
		if got := generichttp.SubMuxSanitize(in); got != want {
			t.Errorf("SubMuxSanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHumanPayloadEncodesFloat(t *testing.T) {
	hp := generichttp.HumanPayload{T: types.Float64, Float: 3.5}
	rec := httptest.NewRecorder()
	hp.EncodeAndRespond(rec, httptest.NewRequest("GET", "/", nil))
	f := generichttp.FloatT{}
	if err := json.NewDecoder(rec.Body).Decode(&f); err != nil {
		t.Fatal(err)
	}
	if f.F64 != 3.5 {
		t.Errorf("expected 3.5 back, got %v", f.F64)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
}

func TestHumanPayloadEncodesBool(t *testing.T) {
	hp := generichttp.HumanPayload{T: types.Bool, Bool: true}
	rec := httptest.NewRecorder()
	hp.EncodeAndRespond(rec, httptest.NewRequest("GET", "/", nil))
	b := generichttp.BoolT{}
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatal(err)
	}
	if !b.Bool {
		t.Error("expected true back")
	}
}

func TestEndpointsDeduplicates(t *testing.T) {
	rt := generichttp.RouteTable{
		{Method: "GET", Path: "/pos"}:  nil,
		{Method: "POST", Path: "/pos"}: nil,
		{Method: "GET", Path: "/lock"}: nil,
	}
	eps := rt.Endpoints()
	if len(eps) != 2 {
		t.Errorf("expected 2 unique endpoints, got %v", eps)
	}
}
