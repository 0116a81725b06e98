package telemetry

import (
	"strings"
	"sync"
)

type ReportKind int

const (
	REPORT_BROKEN ReportKind = iota
	REPORT_WARNING
	REPORT_DEBUG
	REPORT_COUNT
)

type Report struct {
	Kind   ReportKind
	Id     string
	Params []any
	Count  int64
}

// TestAPI records every report it receives so tests can assert on them. It is
// safe for concurrent use.
type TestAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewTestAPI() *TestAPI {
	return &TestAPI{}
}

func (t *TestAPI) add(r Report) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.reports = append(t.reports, r)
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.add(Report{Kind: REPORT_BROKEN, Id: id, Params: params})
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.add(Report{Kind: REPORT_WARNING, Id: id, Params: params})
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {
	t.add(Report{Kind: REPORT_DEBUG, Id: msg, Params: params})
}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.add(Report{Kind: REPORT_COUNT, Id: id, Count: count})
}

// Reports returns a copy of all reports of the given kind.
func (t *TestAPI) Reports(kind ReportKind) []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var out []Report
	for _, r := range t.reports {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Has returns true if a report of the given kind has an id ending with suffix.
func (t *TestAPI) Has(kind ReportKind, suffix string) bool {
	for _, r := range t.Reports(kind) {
		if strings.HasSuffix(r.Id, suffix) {
			return true
		}
	}
	return false
}
