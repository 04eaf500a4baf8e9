package orchestrator

import (
	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one orchestrated request. It always ends in
// StateDone; Err is set when the cycle failed.
type Result struct {
	RequestID string               `json:"request_id"`
	UserID    int                  `json:"user_id"`
	State     State                `json:"state"`
	Phases    []State              `json:"phases"`
	Summary   string               `json:"summary"`
	Tasks     []types.InferredTask `json:"tasks"`
	Sessions  int                  `json:"sessions"`
	Persisted bool                 `json:"persisted"`
	Warnings  []string             `json:"warnings"`
	Err       error                `json:"-"`
	Error     string               `json:"error,omitempty"`
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// run tracks the state machine of a single request.
type run struct {
	res *Result
	log *logrus.Entry
}

func newRun(userID int, op string) *run {
	id := uuid.NewString()
	r := &run{
		res: &Result{RequestID: id, UserID: userID},
		log: config.Logger.WithFields(logrus.Fields{
			"request_id": id,
			"user_id":    userID,
			"op":         op,
		}),
	}
	r.enter(StateIdle)
	return r
}

func (r *run) enter(s State) {
	r.res.State = s
	r.res.Phases = append(r.res.Phases, s)
	r.log.WithField("state", s).Debug("Orchestration state changed")
}

func (r *run) warn(msg string) {
	r.res.Warnings = append(r.res.Warnings, msg)
}

func (r *run) finish(err error) Result {
	if err != nil {
		r.res.Err = err
		r.res.Error = err.Error()
		r.log.WithError(err).Warn("Orchestration finished with error")
	} else {
		r.log.WithFields(logrus.Fields{
			"sessions":  r.res.Sessions,
			"persisted": r.res.Persisted,
			"warnings":  len(r.res.Warnings),
		}).Info("Orchestration finished")
	}
	r.enter(StateDone)
	return *r.res
}
