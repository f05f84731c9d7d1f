package throttle_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gadamc/nipiezeojenapy/server/middleware/throttle"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestBurstExhaustionReturns429(t *testing.T) {
	// effectively no refill during the test
	th := throttle.New(1e-9, 1)
	srv := httptest.NewServer(th.Check(http.HandlerFunc(okHandler)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/pos", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected the first command to pass, got %d", resp.StatusCode)
	}
	resp, err = http.Post(srv.URL+"/pos", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429 once the burst is spent, got %d", resp.StatusCode)
	}
}

func TestReadsPassUnthrottled(t *testing.T) {
	th := throttle.New(1e-9, 1)
	srv := httptest.NewServer(th.Check(http.HandlerFunc(okHandler)))
	defer srv.Close()

	for i := 0; i < 5; i++ {
		resp, err := http.Get(srv.URL + "/pos")
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("read %d was throttled, got %d", i, resp.StatusCode)
		}
	}
}
