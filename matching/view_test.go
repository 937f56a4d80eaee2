package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"worklink-api/models"
)

func ptr(s string) *string { return &s }

func fixtures() ([]models.Task, models.User, models.User) {
	worker := models.User{ID: "w-1", Role: models.RoleWorker}
	provider := models.User{ID: "p-1", Role: models.RoleProvider}

	tasks := []models.Task{
		{ID: "t-open", ProviderID: "p-1", Title: "Clean garden shed",
			Category: models.CategoryCleaning, Status: models.StatusOpen},
		{ID: "t-applied", ProviderID: "p-1", Title: "Move a sofa",
			Category: models.CategoryShifting, Status: models.StatusApplied,
			Applicants: []models.AppliedWorker{
				{WorkerID: "w-1", Status: models.ApplicantPending},
			}},
		{ID: "t-assigned", ProviderID: "p-2", Title: "Fix kitchen sink",
			Category: models.CategoryRepair, Status: models.StatusAssigned,
			WorkerID: ptr("w-1"),
			Applicants: []models.AppliedWorker{
				{WorkerID: "w-1", Status: models.ApplicantAccepted},
			}},
		{ID: "t-ongoing", ProviderID: "p-1", Title: "Paint fence",
			Category: models.CategoryRepair, Status: models.StatusInProgress,
			WorkerID: ptr("w-1")},
		{ID: "t-done", ProviderID: "p-1", Title: "Deliver parcels",
			Category: models.CategoryDelivery, Status: models.StatusCompleted,
			WorkerID: ptr("w-1")},
		{ID: "t-other-worker", ProviderID: "p-2", Title: "Clean windows",
			Category: models.CategoryCleaning, Status: models.StatusInProgress,
			WorkerID: ptr("w-9")},
	}
	return tasks, worker, provider
}

func taskIDs(tasks []models.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestDiscoverableTasksFiltersByStatus(t *testing.T) {
	tasks, _, _ := fixtures()
	got := DiscoverableTasks(tasks, "", "")
	assert.Equal(t, []string{"t-open", "t-applied"}, taskIDs(got))
}

func TestDiscoverableTasksCategoryFilter(t *testing.T) {
	tasks, _, _ := fixtures()
	got := DiscoverableTasks(tasks, models.CategoryShifting, "")
	assert.Equal(t, []string{"t-applied"}, taskIDs(got))

	got = DiscoverableTasks(tasks, models.CategoryDelivery, "")
	assert.Empty(t, got)
}

func TestDiscoverableTasksSearchIsCaseInsensitive(t *testing.T) {
	tasks, _, _ := fixtures()
	got := DiscoverableTasks(tasks, "", "SOFA")
	assert.Equal(t, []string{"t-applied"}, taskIDs(got))
}

func TestDiscoverableTasksPreservesInputOrder(t *testing.T) {
	tasks, _, _ := fixtures()
	// reverse the input; output order must follow
	rev := make([]models.Task, 0, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		rev = append(rev, tasks[i])
	}
	got := DiscoverableTasks(rev, "", "")
	assert.Equal(t, []string{"t-applied", "t-open"}, taskIDs(got))
}

func TestWorkerBuckets(t *testing.T) {
	tasks, worker, _ := fixtures()

	assert.Equal(t, []string{"t-applied", "t-assigned"},
		taskIDs(MyTasks(tasks, worker, BucketAssigned)))
	assert.Equal(t, []string{"t-ongoing"},
		taskIDs(MyTasks(tasks, worker, BucketOngoing)))
	assert.Equal(t, []string{"t-done"},
		taskIDs(MyTasks(tasks, worker, BucketCompleted)))
}

func TestWorkerBucketExcludesRejectedApplications(t *testing.T) {
	worker := models.User{ID: "w-1", Role: models.RoleWorker}
	tasks := []models.Task{
		{ID: "t-lost", Status: models.StatusAssigned, WorkerID: ptr("w-2"),
			Applicants: []models.AppliedWorker{
				{WorkerID: "w-1", Status: models.ApplicantRejected},
				{WorkerID: "w-2", Status: models.ApplicantAccepted},
			}},
	}
	assert.Empty(t, MyTasks(tasks, worker, BucketAssigned))
}

func TestProviderBuckets(t *testing.T) {
	tasks, _, provider := fixtures()

	assert.Equal(t, []string{"t-open", "t-applied"},
		taskIDs(MyTasks(tasks, provider, BucketAssigned)))
	assert.Equal(t, []string{"t-ongoing"},
		taskIDs(MyTasks(tasks, provider, BucketOngoing)))
	assert.Equal(t, []string{"t-done"},
		taskIDs(MyTasks(tasks, provider, BucketCompleted)))
}

func TestStats(t *testing.T) {
	tasks, worker, provider := fixtures()

	rating := 4.8
	worker.Rating = &rating
	ws := Stats(tasks, worker)
	assert.Equal(t, 3, ws.Active) // t-applied, t-assigned, t-ongoing
	assert.Equal(t, 1, ws.Completed)
	assert.Equal(t, &rating, ws.Rating)

	ps := Stats(tasks, provider)
	assert.Equal(t, 3, ps.Active) // t-open, t-applied, t-ongoing
	assert.Equal(t, 1, ps.Completed)
	assert.Nil(t, ps.Rating)
}

func TestEmptyInputsYieldEmptyOutputs(t *testing.T) {
	_, worker, _ := fixtures()
	assert.Empty(t, DiscoverableTasks(nil, "", ""))
	assert.Empty(t, MyTasks(nil, worker, BucketAssigned))
	assert.Zero(t, Stats(nil, worker).Active)
}

func TestProjectionsAreReferentiallyTransparent(t *testing.T) {
	tasks, worker, _ := fixtures()
	first := DiscoverableTasks(tasks, models.CategoryCleaning, "clean")
	second := DiscoverableTasks(tasks, models.CategoryCleaning, "clean")
	assert.Equal(t, first, second)

	b1 := MyTasks(tasks, worker, BucketAssigned)
	b2 := MyTasks(tasks, worker, BucketAssigned)
	assert.Equal(t, b1, b2)
}
