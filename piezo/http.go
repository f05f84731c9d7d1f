package piezo

import (
	"encoding/json"
	"errors"
	"go/types"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/gadamc/nipiezeojenapy/daq"
	"github.com/gadamc/nipiezeojenapy/generichttp"
)

// XYZ is the JSON body for whole-stage positions
type XYZ struct {
	X float64 `json:"x"`

	Y float64 `json:"y"`

	Z float64 `json:"z"`
}

// HTTPStage wraps a Controller in an HTTP route table
type HTTPStage struct {
	ctl *Controller

	RouteTable generichttp.RouteTable
}

// NewHTTPStage returns an HTTP wrapper around the controller with the route
// table pre-configured
func NewHTTPStage(ctl *Controller) HTTPStage {
	h := HTTPStage{ctl: ctl}
	rt := generichttp.RouteTable{
		{Method: http.MethodGet, Path: "/axis/{axis}/pos"}:     h.GetPos,
		{Method: http.MethodPost, Path: "/axis/{axis}/pos"}:    h.SetPos,
		{Method: http.MethodPost, Path: "/axis/{axis}/home"}:   h.Home,
		{Method: http.MethodGet, Path: "/axis/{axis}/voltage"}: h.GetVoltage,
		{Method: http.MethodGet, Path: "/pos"}:                 h.GetPosAll,
		{Method: http.MethodPost, Path: "/pos"}:                h.SetPosAll,
	}
	h.RouteTable = rt
	return h
}

// RT satisfies generichttp.HTTPer
func (h HTTPStage) RT() generichttp.RouteTable {
	return h.RouteTable
}

// statusCode picks the HTTP status for a controller error; range and
// configuration problems are the caller's fault, everything else is the
// hardware's
func statusCode(err error) int {
	var (
		re *RangeError
		ve *daq.RangeError
		ce *ConfigurationError
	)
	if errors.As(err, &re) || errors.As(err, &ve) || errors.As(err, &ce) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func popAxis(w http.ResponseWriter, r *http.Request) (Axis, bool) {
	ax, err := ParseAxis(chi.URLParam(r, "axis"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return ax, true
}

// GetPos reports the position of one axis
func (h HTTPStage) GetPos(w http.ResponseWriter, r *http.Request) {
	ax, ok := popAxis(w, r)
	if !ok {
		return
	}
	pos, err := h.ctl.GetPos(ax)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	hp := generichttp.HumanPayload{T: types.Float64, Float: pos}
	hp.EncodeAndRespond(w, r)
}

// SetPos moves one axis; the relative query parameter switches between
// absolute and relative motion
func (h HTTPStage) SetPos(w http.ResponseWriter, r *http.Request) {
	ax, ok := popAxis(w, r)
	if !ok {
		return
	}
	relative := r.URL.Query().Get("relative")
	if relative == "" {
		relative = "false"
	}
	rel, err := strconv.ParseBool(relative)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := generichttp.FloatT{}
	err = json.NewDecoder(r.Body).Decode(&f)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rel {
		err = h.ctl.MoveRel(ax, f.F64)
	} else {
		err = h.ctl.Move(ax, f.F64)
	}
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Home moves one axis to the low end of its travel
func (h HTTPStage) Home(w http.ResponseWriter, r *http.Request) {
	ax, ok := popAxis(w, r)
	if !ok {
		return
	}
	err := h.ctl.Home(ax)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetVoltage reports the command voltage equivalent of the axis position,
// a diagnostic for comparing against a meter on the amplifier input
func (h HTTPStage) GetVoltage(w http.ResponseWriter, r *http.Request) {
	ax, ok := popAxis(w, r)
	if !ok {
		return
	}
	pos, err := h.ctl.GetPos(ax)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	volts := h.ctl.AxisConfig(ax).PositionToVoltage(pos)
	hp := generichttp.HumanPayload{T: types.Float64, Float: volts}
	hp.EncodeAndRespond(w, r)
}

// GetPosAll reports all three axes as {"x": ..., "y": ..., "z": ...}
func (h HTTPStage) GetPosAll(w http.ResponseWriter, r *http.Request) {
	pos, err := h.ctl.GetPosAll()
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(XYZ{X: pos[X], Y: pos[Y], Z: pos[Z]})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SetPosAll moves all three axes from {"x": ..., "y": ..., "z": ...}
func (h HTTPStage) SetPosAll(w http.ResponseWriter, r *http.Request) {
	var in XYZ
	err := json.NewDecoder(r.Body).Decode(&in)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = h.ctl.MoveAll(in.X, in.Y, in.Z)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}
