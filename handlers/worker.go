package handlers

import (
	"errors"
	"net/http"
	"sort"

	"worklink-api/config"
	"worklink-api/geo"
	"worklink-api/lifecycle"
	"worklink-api/matching"
	"worklink-api/middleware"
	"worklink-api/models"
	"worklink-api/tracking"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Tracker holds the live tracking sessions, keyed by task id.
var Tracker = tracking.NewManager()

func loadTask(c *gin.Context, id string) (models.Task, bool) {
	var task models.Task
	if err := config.DB.Preload("Applicants").First(&task, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return task, false
	}
	return task, true
}

func recordHistory(taskID string, from, to models.TaskStatus, changedBy, note string) {
	config.DB.Create(&models.TaskStatusHistory{
		TaskID:     taskID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Note:       note,
	})
}

// lifecycleStatus maps a lifecycle validation failure onto an HTTP status
func lifecycleStatus(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrAlreadyApplied),
		errors.Is(err, lifecycle.ErrAlreadyAssigned):
		return http.StatusConflict
	case errors.Is(err, lifecycle.ErrApplicantNotFound):
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

// GetWorkerFeed returns open tasks enriched with distance from the worker
func GetWorkerFeed(c *gin.Context) {
	workerID := middleware.GetUserID(c)
	var worker models.User
	if err := config.DB.First(&worker, "id = ?", workerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var tasks []models.Task
	config.DB.Preload("Applicants").
		Where("status IN ?", []models.TaskStatus{models.StatusOpen, models.StatusApplied}).
		Order("created_at desc").
		Find(&tasks)

	tasks = matching.DiscoverableTasks(tasks,
		models.TaskCategory(c.Query("category")), c.Query("search"))
	tasks = withDistances(tasks, geo.Point{Lat: worker.Lat, Lng: worker.Lng})
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DistanceKm < tasks[j].DistanceKm
	})

	c.JSON(http.StatusOK, gin.H{"count": len(tasks), "tasks": tasks})
}

// GetWorkerJobs returns the worker's jobs for one tab:
// ASSIGNED (bids + hires not yet started), ONGOING, COMPLETED
func GetWorkerJobs(c *gin.Context) {
	workerID := middleware.GetUserID(c)
	var worker models.User
	if err := config.DB.First(&worker, "id = ?", workerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	bucket := matching.Bucket(c.DefaultQuery("tab", string(matching.BucketAssigned)))
	var tasks []models.Task
	config.DB.Preload("Applicants").Order("created_at desc").Find(&tasks)

	jobs := matching.MyTasks(tasks, worker, bucket)
	c.JSON(http.StatusOK, gin.H{"tab": bucket, "count": len(jobs), "jobs": jobs})
}

// GetWorkerSummary returns the worker's dashboard counters
func GetWorkerSummary(c *gin.Context) {
	workerID := middleware.GetUserID(c)
	var worker models.User
	if err := config.DB.First(&worker, "id = ?", workerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var tasks []models.Task
	config.DB.Preload("Applicants").Find(&tasks)
	c.JSON(http.StatusOK, gin.H{"summary": matching.Stats(tasks, worker)})
}

// ApplyToTask appends the worker's bid to an open task
func ApplyToTask(c *gin.Context) {
	workerID := middleware.GetUserID(c)
	var worker models.User
	if err := config.DB.First(&worker, "id = ?", workerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	task, ok := loadTask(c, c.Param("id"))
	if !ok {
		return
	}
	if task.ProviderID == workerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot apply to your own task"})
		return
	}

	rating := 5.0
	if worker.Rating != nil {
		rating = *worker.Rating
	}
	applicant := models.AppliedWorker{
		WorkerID:     worker.ID,
		WorkerName:   worker.Name,
		WorkerRating: rating,
		Skills:       worker.Skills,
		WorkerPhoto:  worker.PhotoURL,
		DistanceKm: geo.DistanceKm(
			geo.Point{Lat: worker.Lat, Lng: worker.Lng},
			geo.Point{Lat: task.Lat, Lng: task.Lng}),
	}

	prevStatus := task.Status
	updated, err := lifecycle.Apply(task, applicant)
	if err != nil {
		c.JSON(lifecycleStatus(err), gin.H{
			"error":          err.Error(),
			"current_status": task.Status,
		})
		return
	}

	config.DB.Create(&updated.Applicants[len(updated.Applicants)-1])
	if updated.Status != prevStatus {
		config.DB.Model(&models.Task{}).Where("id = ?", updated.ID).
			Update("status", updated.Status)
		recordHistory(updated.ID, prevStatus, updated.Status, workerID, "First worker applied")
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Applied! Waiting for provider approval.",
		"task_id": updated.ID,
		"status":  updated.Status,
	})
}

type AdvanceTaskRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
	Note   string            `json:"note"`
}

// AdvanceTask handles the assigned worker's progression
// (ASSIGNED → ON_THE_WAY → IN_PROGRESS → COMPLETED, or CANCELLED)
func AdvanceTask(c *gin.Context) {
	workerID := middleware.GetUserID(c)

	task, ok := loadTask(c, c.Param("id"))
	if !ok {
		return
	}
	if task.WorkerID == nil || *task.WorkerID != workerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned worker for this task"})
		return
	}

	var req AdvanceTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prevStatus := task.Status
	updated, err := lifecycle.Advance(task, req.Status, "worker")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    task.Status,
			"requested":         req.Status,
			"valid_next_states": lifecycle.ValidTransitionsFrom(task.Status),
		})
		return
	}

	config.DB.Model(&models.Task{}).Where("id = ?", updated.ID).
		Update("status", updated.Status)
	recordHistory(updated.ID, prevStatus, updated.Status, workerID, req.Note)

	// completion settles the worker's counters and ends any live tracking
	if updated.Status == models.StatusCompleted {
		config.DB.Model(&models.User{}).Where("id = ?", workerID).
			Update("completed_tasks", gorm.Expr("completed_tasks + 1"))
		Tracker.Stop(updated.ID)
	}
	if updated.Status == models.StatusCancelled {
		Tracker.Stop(updated.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Task status updated",
		"task_id":         updated.ID,
		"previous_status": prevStatus,
		"current_status":  updated.Status,
	})
}

// StartTracking begins the simulated live-location feed for a job the
// worker is assigned to and traveling toward.
func StartTracking(c *gin.Context) {
	workerID := middleware.GetUserID(c)
	var worker models.User
	if err := config.DB.First(&worker, "id = ?", workerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	task, ok := loadTask(c, c.Param("id"))
	if !ok {
		return
	}
	if task.WorkerID == nil || *task.WorkerID != workerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned worker for this task"})
		return
	}
	switch task.Status {
	case models.StatusAssigned, models.StatusOnTheWay, models.StatusInProgress:
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Tracking is only available for an active assignment",
			"current_status": task.Status,
		})
		return
	}

	session := Tracker.Start(task.ID,
		geo.Point{Lat: worker.Lat, Lng: worker.Lng},
		geo.Point{Lat: task.Lat, Lng: task.Lng},
		tracking.DefaultInterval)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Tracking started",
		"task_id":  task.ID,
		"position": session.Position(),
	})
}

// GetTracking returns the latest simulated position for a task the caller
// is a party to (assigned worker or owning provider).
func GetTracking(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	task, ok := loadTask(c, c.Param("id"))
	if !ok {
		return
	}
	isWorker := task.WorkerID != nil && *task.WorkerID == callerID
	if !isWorker && task.ProviderID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a party to this task"})
		return
	}

	session, found := Tracker.Get(task.ID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No live tracking session for this task"})
		return
	}

	pos := session.Position()
	c.JSON(http.StatusOK, gin.H{
		"task_id":     task.ID,
		"position":    pos,
		"destination": geo.Point{Lat: task.Lat, Lng: task.Lng},
		"remaining_km": geo.DistanceKm(pos.Point,
			geo.Point{Lat: task.Lat, Lng: task.Lng}),
	})
}

// StopTracking halts the live feed. Safe to call when none is running.
func StopTracking(c *gin.Context) {
	callerID := middleware.GetUserID(c)

	task, ok := loadTask(c, c.Param("id"))
	if !ok {
		return
	}
	isWorker := task.WorkerID != nil && *task.WorkerID == callerID
	if !isWorker && task.ProviderID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a party to this task"})
		return
	}

	Tracker.Stop(task.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Tracking stopped", "task_id": task.ID})
}
