package lifecycle

import (
	"fmt"

	"worklink-api/models"
)

// Decision is the provider's verdict on a pending applicant
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// All operations are whole-value transforms: they work on a copy and return
// (task', error). On error the returned task equals the input, so callers
// never observe partial mutation.

func cloneTask(task models.Task) models.Task {
	out := task
	out.Applicants = make([]models.AppliedWorker, len(task.Applicants))
	copy(out.Applicants, task.Applicants)
	return out
}

// accepting reports whether a task still takes new applications
func accepting(status models.TaskStatus) bool {
	return status == models.StatusOpen || status == models.StatusApplied
}

// Apply appends a pending application from a worker. The first application
// advances OPEN to APPLIED. Applying twice is rejected with ErrAlreadyApplied
// and leaves the roster exactly as the first call produced it.
func Apply(task models.Task, applicant models.AppliedWorker) (models.Task, error) {
	if !accepting(task.Status) {
		return task, ErrTaskNotOpen
	}
	for _, a := range task.Applicants {
		if a.WorkerID == applicant.WorkerID {
			return task, ErrAlreadyApplied
		}
	}

	out := cloneTask(task)
	applicant.TaskID = out.ID
	applicant.Status = models.ApplicantPending
	out.Applicants = append(out.Applicants, applicant)
	if out.Status == models.StatusOpen {
		out.Status = models.StatusApplied
	}
	return out, nil
}

// Decide resolves a pending application. Accepting hires that worker, marks
// every other applicant rejected, mirrors the hire onto the task and moves it
// to ASSIGNED. Rejecting touches only the named applicant. Terminal tasks
// take no verdicts at all, and accepting is additionally gated on the
// transition table, so a cancelled task with leftover pending applicants can
// never be pulled back to ASSIGNED. Accepting when a worker is already hired
// fails with ErrAlreadyAssigned; the at-most-one accepted applicant
// invariant is never silently overwritten.
func Decide(task models.Task, workerID string, decision Decision) (models.Task, error) {
	if IsTerminal(task.Status) {
		return task, ErrInvalidTransition
	}
	if decision == DecisionAccept {
		if task.WorkerID != nil {
			return task, ErrAlreadyAssigned
		}
		for _, a := range task.Applicants {
			if a.Status == models.ApplicantAccepted {
				return task, ErrAlreadyAssigned
			}
		}
		if err := CanTransition(task.Status, models.StatusAssigned, "provider"); err != nil {
			return task, err
		}
	}

	idx := -1
	for i, a := range task.Applicants {
		if a.WorkerID == workerID && a.Status == models.ApplicantPending {
			idx = i
			break
		}
	}
	if idx == -1 {
		return task, ErrApplicantNotFound
	}

	out := cloneTask(task)
	if decision == DecisionReject {
		out.Applicants[idx].Status = models.ApplicantRejected
		return out, nil
	}

	for i := range out.Applicants {
		if i == idx {
			out.Applicants[i].Status = models.ApplicantAccepted
		} else {
			out.Applicants[i].Status = models.ApplicantRejected
		}
	}
	hired := out.Applicants[idx]
	out.WorkerID = &hired.WorkerID
	out.WorkerName = hired.WorkerName
	out.Status = models.StatusAssigned
	return out, nil
}

// Advance moves a task along the worker progression
// (ASSIGNED → ON_THE_WAY → IN_PROGRESS → COMPLETED, ON_THE_WAY skippable)
// or to CANCELLED. Anything else fails with ErrInvalidTransition.
func Advance(task models.Task, next models.TaskStatus, actor string) (models.Task, error) {
	if err := CanTransition(task.Status, next, actor); err != nil {
		return task, err
	}
	out := cloneTask(task)
	out.Status = next
	return out, nil
}

// HireNotification builds the notification delivered to the worker a
// provider just accepted.
func HireNotification(task models.Task) models.Notification {
	workerID := ""
	if task.WorkerID != nil {
		workerID = *task.WorkerID
	}
	return models.Notification{
		UserID:  workerID,
		Title:   "Job Assigned!",
		Message: fmt.Sprintf("You have been hired for %q by %s", task.Title, task.ProviderName),
		Type:    models.NotifySuccess,
	}
}
