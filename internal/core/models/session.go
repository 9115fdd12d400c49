package models

import (
	"errors"
	"time"
)

// SessionStatus is the lifecycle state of a session. Resolution only ever
// produces "active" today; the column exists for future lifecycle states.
type SessionStatus string

const (
	// StatusActive marks a session eligible for resolution.
	StatusActive SessionStatus = "active"
)

// Session represents one tracked working session, scoped to a project path
type Session struct {
	ID          int64         `json:"id"`
	UID         string        `json:"uid"` // stable handle for exports and MCP
	ProjectPath string        `json:"project_path"`
	StartedAt   time.Time     `json:"started_at"`
	LastActive  time.Time     `json:"last_active"`
	Description string        `json:"description"`
	Status      SessionStatus `json:"status"`
}

// Validate checks if the session has required fields
func (s *Session) Validate() error {
	if s.ProjectPath == "" {
		return errors.New("project_path is required")
	}
	if s.Status == "" {
		return errors.New("status is required")
	}
	return nil
}
