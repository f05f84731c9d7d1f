// Package generichttp contains the building blocks for HTTP interfaces to
// devices: a bindable route table and single-value JSON payloads.
package generichttp

import (
	"encoding/json"
	"fmt"
	"go/types"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
)

// MethodPath is an HTTP method and URL path pair
type MethodPath struct {
	Method string
	Path   string
}

// RouteTable maps method-path pairs to the handlers that serve them
type RouteTable map[MethodPath]http.HandlerFunc

// Bind attaches every route in the table to a chi router
func (rt RouteTable) Bind(r chi.Router) {
	for mp, handler := range rt {
		r.Method(mp.Method, mp.Path, handler)
	}
}

// Endpoints returns the URL paths in the table
func (rt RouteTable) Endpoints() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(rt))
	for mp := range rt {
		if _, ok := seen[mp.Path]; ok {
			continue
		}
		seen[mp.Path] = struct{}{}
		out = append(out, mp.Path)
	}
	return out
}

// HTTPer is a type which can yield its route table for binding
type HTTPer interface {
	RT() RouteTable
}

// SubMuxSanitize ensures a mount point looks like "/a/b/",
// e.g. "omc/piezo" => "/omc/piezo/"
func SubMuxSanitize(str string) string {
	str = strings.TrimSuffix(str, "*")
	if !strings.HasPrefix(str, "/") {
		str = "/" + str
	}
	if !strings.HasSuffix(str, "/") {
		str = str + "/"
	}
	return str
}

// FloatT is a struct with a single float64 field used for json input/output
type FloatT struct {
	F64 float64 `json:"f64"`
}

// IntT is a struct with a single int field used for json input/output
type IntT struct {
	Int int `json:"int"`
}

// BoolT is a struct with a single bool field used for json input/output
type BoolT struct {
	Bool bool `json:"bool"`
}

// StrT is a struct with a single string field used for json input/output
type StrT struct {
	Str string `json:"str"`
}

// HumanPayload is a variant over the basic types a device yields,
// tagged by T
type HumanPayload struct {
	T types.BasicKind

	Bool bool

	Int int

	Float float64

	String string
}

// EncodeAndRespond writes the payload to w as the single-value JSON object
// matching its tag
func (hp HumanPayload) EncodeAndRespond(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var err error
	switch hp.T {
	case types.Bool:
		err = json.NewEncoder(w).Encode(BoolT{Bool: hp.Bool})
	case types.Int:
		err = json.NewEncoder(w).Encode(IntT{Int: hp.Int})
	case types.Float64:
		err = json.NewEncoder(w).Encode(FloatT{F64: hp.Float})
	case types.String:
		err = json.NewEncoder(w).Encode(StrT{Str: hp.String})
	default:
		err = fmt.Errorf("generichttp: unencodable payload kind %v", hp.T)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
