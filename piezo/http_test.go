package piezo_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/require"

	"github.com/gadamc/nipiezeojenapy/daq"
	"github.com/gadamc/nipiezeojenapy/generichttp"
	"github.com/gadamc/nipiezeojenapy/piezo"
)

var errNoAmp = errors.New("amplifier offline")

func newStageServer(t *testing.T, cfg piezo.Config) (*httptest.Server, *daq.Simulator) {
	t.Helper()
	sim := daq.NewSimulator()
	ctl, err := piezo.New(daq.NewAdapter(sim), cfg)
	require.NoError(t, err)
	r := chi.NewRouter()
	piezo.NewHTTPStage(ctl).RT().Bind(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sim
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buf).Encode(body))
	resp, err := http.Post(url, "application/json", buf)
	require.NoError(t, err)
	return resp
}

func TestHTTPMoveAndGetPos(t *testing.T) {
	srv, sim := newStageServer(t, writeOnlyConfig())

	resp := postJSON(t, srv.URL+"/axis/x/pos", generichttp.FloatT{F64: 50})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v, _ := sim.Volts("ao0")
	require.Equal(t, 5.0, v)

	resp, err := http.Get(srv.URL + "/axis/x/pos")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f := generichttp.FloatT{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	require.Equal(t, 50.0, f.F64)
}

func TestHTTPRelativeMove(t *testing.T) {
	srv, _ := newStageServer(t, writeOnlyConfig())

	resp := postJSON(t, srv.URL+"/axis/y/pos", generichttp.FloatT{F64: 30})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = postJSON(t, srv.URL+"/axis/y/pos?relative=true", generichttp.FloatT{F64: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/axis/y/pos")
	require.NoError(t, err)
	defer resp.Body.Close()
	f := generichttp.FloatT{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	require.Equal(t, 35.0, f.F64)
}

func TestHTTPOutOfRangeIsBadRequest(t *testing.T) {
	srv, sim := newStageServer(t, writeOnlyConfig())
	resp := postJSON(t, srv.URL+"/axis/x/pos", generichttp.FloatT{F64: 500})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Empty(t, sim.Journal())
}

func TestHTTPUnknownAxisIsBadRequest(t *testing.T) {
	srv, _ := newStageServer(t, writeOnlyConfig())
	resp, err := http.Get(srv.URL + "/axis/q/pos")
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPWholStagePositions(t *testing.T) {
	srv, _ := newStageServer(t, writeOnlyConfig())

	resp := postJSON(t, srv.URL+"/pos", piezo.XYZ{X: 10, Y: 20, Z: 30})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/pos")
	require.NoError(t, err)
	defer resp.Body.Close()
	var out piezo.XYZ
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, piezo.XYZ{X: 10, Y: 20, Z: 30}, out)
}

func TestHTTPHomeAndVoltage(t *testing.T) {
	srv, _ := newStageServer(t, writeOnlyConfig())

	resp := postJSON(t, srv.URL+"/axis/z/pos", generichttp.FloatT{F64: 80})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, err := http.Post(srv.URL+"/axis/z/home", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/axis/z/voltage")
	require.NoError(t, err)
	defer resp.Body.Close()
	f := generichttp.FloatT{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	require.Equal(t, 0.0, f.F64)
}

func TestHTTPHardwareFaultIsServerError(t *testing.T) {
	srv, sim := newStageServer(t, writeOnlyConfig())
	sim.FailOpen("ao0", errNoAmp)
	resp := postJSON(t, srv.URL+"/axis/x/pos", generichttp.FloatT{F64: 10})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
