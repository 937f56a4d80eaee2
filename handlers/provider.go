package handlers

import (
	"net/http"

	"worklink-api/config"
	"worklink-api/extract"
	"worklink-api/lifecycle"
	"worklink-api/matching"
	"worklink-api/middleware"
	"worklink-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Analyzer extracts structured drafts from free-text descriptions.
// main wires the real client; tests may substitute their own.
var Analyzer extract.Analyzer = extract.NewClient(
	config.GetEnv("EXTRACTOR_URL", "https://generativelanguage.googleapis.com"),
	config.GetEnv("EXTRACTOR_API_KEY", ""),
	config.GetEnv("EXTRACTOR_MODEL", "gemini-2.5-flash"),
)

type AnalyzeTaskRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// AnalyzeTask turns a raw description into a structured draft the provider
// can edit before posting. Extraction failures degrade to a fallback draft,
// never an error.
func AnalyzeTask(c *gin.Context) {
	var req AnalyzeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": Analyzer.Analyze(c.Request.Context(), req.Prompt)})
}

type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Budget      float64             `json:"budget" binding:"gte=0"`
	Category    models.TaskCategory `json:"category"`
	Lat         float64             `json:"lat"`
	Lng         float64             `json:"lng"`
	Address     string              `json:"address"`
	Date        string              `json:"date"`
	Skills      []string            `json:"skills"`
}

// CreateTask posts a new OPEN task owned by the provider
func CreateTask(c *gin.Context) {
	providerID := middleware.GetUserID(c)
	var provider models.User
	if err := config.DB.First(&provider, "id = ?", providerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = models.CategoryOther
	}
	// tasks default to the provider's own location
	if req.Lat == 0 && req.Lng == 0 {
		req.Lat, req.Lng = provider.Lat, provider.Lng
	}
	if req.Address == "" {
		req.Address = provider.Address
	}

	task := models.Task{
		ID:            uuid.NewString(),
		ProviderID:    provider.ID,
		ProviderName:  provider.Name,
		ProviderPhone: provider.Phone,
		Title:         req.Title,
		Description:   req.Description,
		Budget:        req.Budget,
		Category:      req.Category,
		Lat:           req.Lat,
		Lng:           req.Lng,
		Address:       req.Address,
		Status:        models.StatusOpen,
		Date:          req.Date,
		Skills:        req.Skills,
	}
	if err := config.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	recordHistory(task.ID, "", models.StatusOpen, providerID, "Task posted")

	c.JSON(http.StatusCreated, gin.H{"message": "Job posted successfully", "task": task})
}

// GetProviderTasks returns the provider's postings for one tab
func GetProviderTasks(c *gin.Context) {
	providerID := middleware.GetUserID(c)
	var provider models.User
	if err := config.DB.First(&provider, "id = ?", providerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	bucket := matching.Bucket(c.DefaultQuery("tab", string(matching.BucketAssigned)))
	var tasks []models.Task
	config.DB.Preload("Applicants").
		Where("provider_id = ?", providerID).
		Order("created_at desc").
		Find(&tasks)

	mine := matching.MyTasks(tasks, provider, bucket)
	c.JSON(http.StatusOK, gin.H{"tab": bucket, "count": len(mine), "tasks": mine})
}

// GetProviderSummary returns posting counters plus the pending-applicant inbox
func GetProviderSummary(c *gin.Context) {
	providerID := middleware.GetUserID(c)
	var provider models.User
	if err := config.DB.First(&provider, "id = ?", providerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var tasks []models.Task
	config.DB.Preload("Applicants").
		Where("provider_id = ?", providerID).
		Order("created_at desc").
		Find(&tasks)

	type inboxEntry struct {
		TaskID    string               `json:"task_id"`
		TaskTitle string               `json:"task_title"`
		Applicant models.AppliedWorker `json:"applicant"`
	}
	inbox := []inboxEntry{}
	for _, t := range tasks {
		for _, a := range t.Applicants {
			if a.Status == models.ApplicantPending {
				inbox = append(inbox, inboxEntry{TaskID: t.ID, TaskTitle: t.Title, Applicant: a})
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":            matching.Stats(tasks, provider),
		"pending_applicants": inbox,
	})
}

type DecideApplicantRequest struct {
	Decision lifecycle.Decision `json:"decision" binding:"required,oneof=accept reject"`
}

// DecideApplicant resolves a pending bid on the provider's task. Accepting
// hires the worker, rejects everyone else and notifies the hire; the
// at-most-one-accepted invariant is enforced against the freshly loaded row,
// which rejects concurrent double-hires against a stale snapshot.
func DecideApplicant(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	task, ok := loadTask(c, c.Param("id"))
	if !ok {
		return
	}
	if task.ProviderID != providerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This task does not belong to you"})
		return
	}

	var req DecideApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workerID := c.Param("workerId")
	prevStatus := task.Status
	updated, err := lifecycle.Decide(task, workerID, req.Decision)
	if err != nil {
		c.JSON(lifecycleStatus(err), gin.H{
			"error":          err.Error(),
			"current_status": task.Status,
		})
		return
	}

	// persist applicant verdicts
	for _, a := range updated.Applicants {
		config.DB.Model(&models.AppliedWorker{}).Where("id = ?", a.ID).
			Update("status", a.Status)
	}

	if req.Decision == lifecycle.DecisionAccept {
		config.DB.Model(&models.Task{}).Where("id = ?", updated.ID).
			Updates(map[string]interface{}{
				"status":      updated.Status,
				"worker_id":   updated.WorkerID,
				"worker_name": updated.WorkerName,
			})
		recordHistory(updated.ID, prevStatus, updated.Status, providerID, "Worker hired")

		notification := lifecycle.HireNotification(updated)
		notification.ID = uuid.NewString()
		config.DB.Create(&notification)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Applicant " + string(req.Decision) + "ed",
		"task_id":   updated.ID,
		"worker_id": workerID,
		"status":    updated.Status,
	})
}

type CancelTaskRequest struct {
	Reason string `json:"reason"`
}

// CancelTask retires a non-terminal task. Tasks are never deleted;
// retirement is a status transition only.
func CancelTask(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	task, ok := loadTask(c, c.Param("id"))
	if !ok {
		return
	}
	if task.ProviderID != providerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This task does not belong to you"})
		return
	}

	var req CancelTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prevStatus := task.Status
	updated, err := lifecycle.Advance(task, models.StatusCancelled, "provider")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Cannot cancel task",
			"current_status": task.Status,
		})
		return
	}

	config.DB.Model(&models.Task{}).Where("id = ?", updated.ID).
		Update("status", updated.Status)
	recordHistory(updated.ID, prevStatus, updated.Status, providerID, req.Reason)
	Tracker.Stop(updated.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Task cancelled", "task_id": updated.ID})
}
