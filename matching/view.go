// Package matching derives read-only task projections for a viewer: the
// discovery feed, per-role "my jobs" buckets and dashboard stat summaries.
// Everything here is a pure function over task slices; callers own ordering
// (lists arrive sorted by created_at descending upstream) and mutation.
package matching

import (
	"strings"

	"worklink-api/models"
)

// Bucket names the tabs of the "my jobs" screen for both roles
type Bucket string

const (
	BucketAssigned  Bucket = "ASSIGNED"
	BucketOngoing   Bucket = "ONGOING"
	BucketCompleted Bucket = "COMPLETED"
)

// StatSummary is a viewer's dashboard aggregate, recomputed on every call.
type StatSummary struct {
	Active    int      `json:"active"`
	Completed int      `json:"completed"`
	Rating    *float64 `json:"rating,omitempty"`
}

// accepting mirrors lifecycle: OPEN and APPLIED tasks still take applications
// and therefore still show up in discovery.
func accepting(status models.TaskStatus) bool {
	return status == models.StatusOpen || status == models.StatusApplied
}

// DiscoverableTasks filters tasks still accepting applications, optionally by
// exact category and a case-insensitive substring match on the title.
// Input order is preserved.
func DiscoverableTasks(tasks []models.Task, category models.TaskCategory, search string) []models.Task {
	out := []models.Task{}
	needle := strings.ToLower(search)
	for _, t := range tasks {
		if !accepting(t.Status) {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func hasApplicant(t models.Task, workerID string) bool {
	for _, a := range t.Applicants {
		if a.WorkerID == workerID &&
			(a.Status == models.ApplicantPending || a.Status == models.ApplicantAccepted) {
			return true
		}
	}
	return false
}

func isAssignedWorker(t models.Task, workerID string) bool {
	return t.WorkerID != nil && *t.WorkerID == workerID
}

// MyTasks projects the viewer's bucket. Workers see tasks they bid on or were
// hired for; providers see their own postings crossed with status groups.
func MyTasks(tasks []models.Task, viewer models.User, bucket Bucket) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if inBucket(t, viewer, bucket) {
			out = append(out, t)
		}
	}
	return out
}

func inBucket(t models.Task, viewer models.User, bucket Bucket) bool {
	if viewer.Role == models.RoleWorker {
		switch bucket {
		case BucketAssigned:
			if t.Status != models.StatusApplied &&
				t.Status != models.StatusAssigned &&
				t.Status != models.StatusOnTheWay {
				return false
			}
			return hasApplicant(t, viewer.ID) || isAssignedWorker(t, viewer.ID)
		case BucketOngoing:
			return t.Status == models.StatusInProgress && isAssignedWorker(t, viewer.ID)
		case BucketCompleted:
			return t.Status == models.StatusCompleted && isAssignedWorker(t, viewer.ID)
		}
		return false
	}

	if t.ProviderID != viewer.ID {
		return false
	}
	switch bucket {
	case BucketAssigned:
		return t.Status == models.StatusOpen || t.Status == models.StatusApplied ||
			t.Status == models.StatusAssigned || t.Status == models.StatusOnTheWay
	case BucketOngoing:
		return t.Status == models.StatusInProgress
	case BucketCompleted:
		return t.Status == models.StatusCompleted
	}
	return false
}

// Stats counts the viewer's active and completed tasks. Derived, never
// cached: task mutations happen outside this package.
func Stats(tasks []models.Task, viewer models.User) StatSummary {
	s := StatSummary{Rating: viewer.Rating}
	for _, t := range tasks {
		if inBucket(t, viewer, BucketAssigned) || inBucket(t, viewer, BucketOngoing) {
			s.Active++
		}
		if inBucket(t, viewer, BucketCompleted) {
			s.Completed++
		}
	}
	return s
}
