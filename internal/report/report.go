package report

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/oncomark/internal/batch"
	"github.com/abhisek/oncomark/internal/classifier"
	"github.com/abhisek/oncomark/internal/marker"
	"github.com/abhisek/oncomark/internal/panelsrc"
)

// Report is the rendered-ready outcome for one patient.
type Report struct {
	RunID     string                  `json:"run_id"`
	RecordID  string                  `json:"record_id"`
	Patient   string                  `json:"patient,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
	Panel     marker.Panel            `json:"panel"`
	Best      *classifier.ClassScore  `json:"best,omitempty"`
	Ranked    []classifier.ClassScore `json:"ranked,omitempty"`
	Error     string                  `json:"error,omitempty"`
}

// NewRunID returns an identifier shared by every report of one invocation.
func NewRunID() string {
	return uuid.New().String()
}

// FromResult builds a report from a batch result. Ranked holds at most top
// entries (0 = all), best first.
func FromResult(runID string, res batch.Result, top int) Report {
	r := Report{
		RunID:     runID,
		RecordID:  res.Record.ID,
		Patient:   res.Record.Patient,
		Timestamp: time.Now().UTC(),
		Panel:     finiteReadings(res.Record.Panel),
	}
	if res.Err != nil {
		r.Error = res.Err.Error()
		return r
	}
	best := res.Best
	r.Best = &best
	r.Ranked = classifier.Top(classifier.Rank(res.Scores), top)
	return r
}

// finiteReadings drops NaN and Inf readings, which JSON cannot carry. The
// report's Error already names the offending marker.
func finiteReadings(p marker.Panel) marker.Panel {
	out := make(marker.Panel, len(p))
	for m, v := range p {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[m] = v
		}
	}
	return out
}

// Build scores a single record and wraps it as a report.
func Build(runID string, engine *classifier.Engine, rec panelsrc.Record, top int) Report {
	res := batch.Result{Record: rec}
	scores, err := engine.ScoreAll(rec.Panel)
	if err != nil {
		res.Err = err
	} else {
		res.Scores = scores
		res.Best = classifier.Rank(scores)[0]
	}
	return FromResult(runID, res, top)
}

// Name returns the patient label or record ID.
func (r Report) Name() string {
	if r.Patient != "" {
		return r.Patient
	}
	return r.RecordID
}
