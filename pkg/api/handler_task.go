package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"
)

// getTaskHandler handles GET /v1/tasks/:task_id.
func (s *Server) getTaskHandler(c *echo.Context) error {
	taskID := c.Param("task_id")
	if taskID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	snapshot, err := s.tasks.Get(c.Request().Context(), identityFrom(c).WorkspaceID, taskID)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// listTasksHandler handles GET /v1/tasks.
func (s *Server) listTasksHandler(c *echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit: must be a positive integer")
		}
		limit = n
	}

	snapshots, err := s.tasks.List(c.Request().Context(), identityFrom(c).WorkspaceID, limit)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, snapshots)
}

// pauseTaskHandler handles POST /v1/tasks/:task_id/pause.
func (s *Server) pauseTaskHandler(c *echo.Context) error {
	taskID := c.Param("task_id")
	if taskID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	if err := s.tasks.RequestPause(c.Request().Context(), identityFrom(c).WorkspaceID, taskID); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, &SignalResponse{
		TaskID:  taskID,
		Message: "Pause requested",
	})
}

// resumeTaskHandler handles POST /v1/tasks/:task_id/resume.
func (s *Server) resumeTaskHandler(c *echo.Context) error {
	taskID := c.Param("task_id")
	if taskID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	if err := s.tasks.RequestResume(c.Request().Context(), identityFrom(c).WorkspaceID, taskID); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, &SignalResponse{
		TaskID:  taskID,
		Message: "Resume requested",
	})
}
