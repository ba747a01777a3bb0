// Package dispatch simulates the cleanup robot fleet. Assignments are random
// but drawn from an injected source so callers can make them reproducible.
package dispatch

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	StatusPending    = "pending"
	StatusDispatched = "dispatched"
	StatusEnRoute    = "en_route"
	StatusArrived    = "arrived"
	StatusCompleted  = "completed"

	minBattery = 50
)

var ErrUnknownRobot = errors.New("unknown robot")

type Robot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Battery     int    `json:"battery"`
	Maintenance bool   `json:"maintenance"`
}

func (r Robot) Available() bool {
	return !r.Maintenance && r.Battery >= minBattery
}

func DefaultFleet() []Robot {
	return []Robot{
		{ID: "1", Name: "Cleaner-001", Location: "Industrial Park", Battery: 95},
		{ID: "2", Name: "Cleaner-002", Location: "Business Center", Battery: 87},
		{ID: "3", Name: "Cleaner-003", Location: "Maintenance", Battery: 45, Maintenance: true},
	}
}

type Request struct {
	RobotID  string
	Priority string
}

type Assignment struct {
	Robot      Robot
	Status     string
	ETAMinutes int
	Message    string
}

// etaRange is the inclusive ETA window in minutes per priority.
var etaRange = map[string][2]int{
	PriorityHigh:   {5, 15},
	PriorityMedium: {10, 25},
	PriorityLow:    {15, 40},
}

type Dispatcher struct {
	mu    sync.Mutex
	rng   *rand.Rand
	fleet []Robot
}

func New(fleet []Robot, src rand.Source) *Dispatcher {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Dispatcher{
		rng:   rand.New(src),
		fleet: append([]Robot(nil), fleet...),
	}
}

func (d *Dispatcher) Fleet() []Robot {
	return append([]Robot(nil), d.fleet...)
}

// Find looks a robot up by ID ("1") or name ("Cleaner-001").
func (d *Dispatcher) Find(idOrName string) (Robot, bool) {
	for _, r := range d.fleet {
		if r.ID == idOrName || strings.EqualFold(r.Name, idOrName) {
			return r, true
		}
	}
	return Robot{}, false
}

// Dispatch assigns the requested robot, or the best available one when it is
// unavailable. With no robot available the request stays pending.
func (d *Dispatcher) Dispatch(req Request) (Assignment, error) {
	var robot Robot
	ok := len(d.fleet) > 0
	if ok {
		robot = d.fleet[0]
	}
	if req.RobotID != "" {
		robot, ok = d.Find(req.RobotID)
		if !ok {
			return Assignment{}, errors.Wrapf(ErrUnknownRobot, "%q", req.RobotID)
		}
	}

	if !ok || !robot.Available() {
		fallback, found := d.bestAvailable()
		if !found {
			return Assignment{
				Robot:   robot,
				Status:  StatusPending,
				Message: "No robot is available right now, the request has been queued",
			}, nil
		}
		robot = fallback
	}

	window, ok := etaRange[req.Priority]
	if !ok {
		window = etaRange[PriorityLow]
	}

	d.mu.Lock()
	eta := window[0] + d.rng.Intn(window[1]-window[0]+1)
	d.mu.Unlock()

	return Assignment{
		Robot:      robot,
		Status:     StatusDispatched,
		ETAMinutes: eta,
		Message:    fmt.Sprintf("%s has received the task, ETA %d minutes", robot.Name, eta),
	}, nil
}

func (d *Dispatcher) bestAvailable() (Robot, bool) {
	candidates := make([]Robot, 0, len(d.fleet))
	for _, r := range d.fleet {
		if r.Available() {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return Robot{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Battery > candidates[j].Battery
	})
	return candidates[0], true
}
