// Package status owns the jsontp status catalog.
//
// Every numeric code carried on the wire is enriched into a Status triple
// here. Lookups are pure and safe for concurrent use.
package status

import (
	"fmt"
	"sort"
)

const (
	MinCode = 100
	MaxCode = 599
)

// Status is the code/formal/human triple carried in every wire response.
type Status struct {
	Code          int    `json:"code"`
	FormalMessage string `json:"formal-message"`
	HumanMessage  string `json:"human-message"`
}

func (s Status) String() string {
	return fmt.Sprintf("%d %s", s.Code, s.FormalMessage)
}

var byCode = func() map[int]Status {
	m := make(map[int]Status, len(registry))
	for _, s := range registry {
		m[s.Code] = s
	}
	return m
}()

// class descriptions attached to in-range codes missing from the catalog.
var classes = map[int]Status{
	1: {FormalMessage: "Informational", HumanMessage: "The request was received and processing is continuing"},
	2: {FormalMessage: "Success", HumanMessage: "The request was successfully received, understood, and accepted"},
	3: {FormalMessage: "Redirection", HumanMessage: "Further action needs to be taken in order to complete the request"},
	4: {FormalMessage: "Client Error", HumanMessage: "The request contains bad syntax or cannot be fulfilled"},
	5: {FormalMessage: "Server Error", HumanMessage: "The server failed to fulfil an apparently valid request"},
}

// Categorize enriches code into a Status.
//
// Catalog codes return their registry entry. In-range codes missing from the
// catalog keep the caller's code and take the generic description of their
// class. Codes outside [MinCode, MaxCode] collapse to InternalError.
func Categorize(code int) Status {
	if s, ok := byCode[code]; ok {
		return s
	}
	if code < MinCode || code > MaxCode {
		return InternalError()
	}
	generic := classes[code/100]
	generic.Code = code
	return generic
}

// Known reports whether code has a catalog entry.
func Known(code int) bool {
	_, ok := byCode[code]
	return ok
}

// InRange reports whether code lies in the valid response status range.
func InRange(code int) bool {
	return code >= MinCode && code <= MaxCode
}

// Codes returns every catalog code in ascending order.
func Codes() []int {
	out := make([]int, 0, len(byCode))
	for code := range byCode {
		out = append(out, code)
	}
	sort.Ints(out)
	return out
}

// NotFound is the fixed status for a routing miss.
func NotFound() Status {
	return Status{
		Code:          404,
		FormalMessage: "Not Found",
		HumanMessage:  "Resource not found",
	}
}

// InternalError is the fixed status for handler faults and unusable codes.
// The human message never carries fault details.
func InternalError() Status {
	return Status{
		Code:          500,
		FormalMessage: "Internal Server Error",
		HumanMessage:  "The server encountered an unexpected condition and could not complete the request",
	}
}

// Describe returns Categorize(code) with the human message replaced by human
// when it is non-empty.
func Describe(code int, human string) Status {
	s := Categorize(code)
	if human != "" {
		s.HumanMessage = human
	}
	return s
}
