package handlers

import (
	"net/http"
	"strconv"

	"worklink-api/config"
	"worklink-api/geo"
	"worklink-api/lifecycle"
	"worklink-api/matching"
	"worklink-api/models"

	"github.com/gin-gonic/gin"
)

// parseViewpoint reads optional lat/lng query params describing where the
// caller is looking from. Distance enrichment is skipped without one.
func parseViewpoint(c *gin.Context) (geo.Point, bool) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return geo.Point{}, false
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: lat, Lng: lng}, true
}

// withDistances fills the derived DistanceKm field relative to a viewpoint.
func withDistances(tasks []models.Task, from geo.Point) []models.Task {
	for i := range tasks {
		tasks[i].DistanceKm = geo.DistanceKm(from, geo.Point{Lat: tasks[i].Lat, Lng: tasks[i].Lng})
	}
	return tasks
}

// ListTasks returns tasks still accepting applications (public discovery feed)
func ListTasks(c *gin.Context) {
	var tasks []models.Task
	config.DB.Preload("Applicants").
		Where("status IN ?", []models.TaskStatus{models.StatusOpen, models.StatusApplied}).
		Order("created_at desc").
		Find(&tasks)

	tasks = matching.DiscoverableTasks(tasks,
		models.TaskCategory(c.Query("category")), c.Query("search"))

	if from, ok := parseViewpoint(c); ok {
		tasks = withDistances(tasks, from)
	}

	c.JSON(http.StatusOK, gin.H{"count": len(tasks), "tasks": tasks})
}

// GetTask returns a single task with applicants and history
func GetTask(c *gin.Context) {
	var task models.Task
	if err := config.DB.Preload("Applicants").Preload("StatusHistory").
		First(&task, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if from, ok := parseViewpoint(c); ok {
		task.DistanceKm = geo.DistanceKm(from, geo.Point{Lat: task.Lat, Lng: task.Lng})
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// GetStateMachineInfo returns the full task state machine for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	transitions := []gin.H{}
	for _, t := range lifecycle.GetAllTransitions() {
		transitions = append(transitions, gin.H{
			"from": t.From, "to": t.To, "actor": t.Actor,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   transitions,
		"initial_state":   models.StatusOpen,
		"terminal_states": []models.TaskStatus{models.StatusCompleted, models.StatusCancelled},
	})
}

type marker struct {
	TaskID  string  `json:"task_id,omitempty"`
	Label   string  `json:"label"`
	TopPct  float64 `json:"top_pct"`
	LeftPct float64 `json:"left_pct"`
}

// GetMapViewport computes bounds fitted around the caller and their visible
// open tasks, plus percent marker positions for rendering.
func GetMapViewport(c *gin.Context) {
	from, ok := parseViewpoint(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query params are required"})
		return
	}

	var tasks []models.Task
	config.DB.
		Where("status IN ?", []models.TaskStatus{models.StatusOpen, models.StatusApplied}).
		Order("created_at desc").
		Find(&tasks)
	tasks = matching.DiscoverableTasks(tasks,
		models.TaskCategory(c.Query("category")), c.Query("search"))

	// bounds always include the viewer's own location
	points := []geo.Point{from}
	for _, t := range tasks {
		points = append(points, geo.Point{Lat: t.Lat, Lng: t.Lng})
	}
	bounds := geo.FitBounds(points, 0.4)

	markers := []marker{}
	top, left := geo.ProjectToViewport(from, bounds)
	markers = append(markers, marker{Label: "you", TopPct: top, LeftPct: left})
	for _, t := range tasks {
		top, left := geo.ProjectToViewport(geo.Point{Lat: t.Lat, Lng: t.Lng}, bounds)
		markers = append(markers, marker{TaskID: t.ID, Label: t.Title, TopPct: top, LeftPct: left})
	}

	c.JSON(http.StatusOK, gin.H{"bounds": bounds, "markers": markers})
}
