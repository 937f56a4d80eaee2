package lifecycle

import (
	"errors"

	"worklink-api/models"
)

// Lifecycle validation failures. Every operation either returns a new valid
// task value or one of these, leaving its input unmodified.
var (
	ErrAlreadyApplied    = errors.New("worker has already applied to this task")
	ErrTaskNotOpen       = errors.New("task is no longer accepting applications")
	ErrApplicantNotFound = errors.New("no pending applicant with that worker id")
	ErrAlreadyAssigned   = errors.New("task already has an accepted worker")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.TaskStatus
	To    models.TaskStatus
	Actor string // "worker", "provider" or "system"
}

// validTransitions is the authoritative state machine definition.
// ON_THE_WAY is an optional stage: workers may go straight from ASSIGNED
// to IN_PROGRESS. CANCELLED is reachable from any non-terminal state.
var validTransitions = []Transition{
	// First application marks the task as having applicants
	{From: models.StatusOpen, To: models.StatusApplied, Actor: "worker"},
	// Provider hires one applicant
	{From: models.StatusApplied, To: models.StatusAssigned, Actor: "provider"},
	// Worker heads out, then starts the job
	{From: models.StatusAssigned, To: models.StatusOnTheWay, Actor: "worker"},
	{From: models.StatusAssigned, To: models.StatusInProgress, Actor: "worker"},
	{From: models.StatusOnTheWay, To: models.StatusInProgress, Actor: "worker"},
	// Worker finishes
	{From: models.StatusInProgress, To: models.StatusCompleted, Actor: "worker"},
	// Provider can cancel any non-terminal task
	{From: models.StatusOpen, To: models.StatusCancelled, Actor: "provider"},
	{From: models.StatusApplied, To: models.StatusCancelled, Actor: "provider"},
	{From: models.StatusAssigned, To: models.StatusCancelled, Actor: "provider"},
	{From: models.StatusOnTheWay, To: models.StatusCancelled, Actor: "provider"},
	{From: models.StatusInProgress, To: models.StatusCancelled, Actor: "provider"},
	// Assigned worker can back out before completion
	{From: models.StatusAssigned, To: models.StatusCancelled, Actor: "worker"},
	{From: models.StatusOnTheWay, To: models.StatusCancelled, Actor: "worker"},
	{From: models.StatusInProgress, To: models.StatusCancelled, Actor: "worker"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.TaskStatus
	To    models.TaskStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.TaskStatus) []models.TaskStatus {
	var nexts []models.TaskStatus
	seen := map[models.TaskStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.TaskStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return ErrInvalidTransition
}

// IsTerminal reports whether a status admits no further transitions
func IsTerminal(status models.TaskStatus) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
