package models

import (
	"fmt"
	"time"
)

// ChangeKind classifies a logged file change.
type ChangeKind string

const (
	ChangeCreate ChangeKind = "create"
	ChangeModify ChangeKind = "modify"
	ChangeDelete ChangeKind = "delete"
)

// ParseChangeKind converts a string into a ChangeKind, rejecting anything
// outside the closed set.
func ParseChangeKind(s string) (ChangeKind, error) {
	switch ChangeKind(s) {
	case ChangeCreate, ChangeModify, ChangeDelete:
		return ChangeKind(s), nil
	}
	return "", fmt.Errorf("invalid change type %q (want create, modify, or delete)", s)
}

// TestResult classifies the outcome of a logged test execution.
type TestResult string

const (
	TestPass  TestResult = "pass"
	TestFail  TestResult = "fail"
	TestError TestResult = "error"
)

// ParseTestResult converts a string into a TestResult.
func ParseTestResult(s string) (TestResult, error) {
	switch TestResult(s) {
	case TestPass, TestFail, TestError:
		return TestResult(s), nil
	}
	return "", fmt.Errorf("invalid test result %q (want pass, fail, or error)", s)
}

// EventKind names one of the five ledger tables for queries and exports.
type EventKind string

const (
	KindReads   EventKind = "reads"
	KindChanges EventKind = "changes"
	KindTests   EventKind = "tests"
	KindNotes   EventKind = "notes"
	KindErrors  EventKind = "errors"
)

// ParseEventKind converts a string into an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(s) {
	case KindReads, KindChanges, KindTests, KindNotes, KindErrors:
		return EventKind(s), nil
	}
	return "", fmt.Errorf("invalid query kind %q (want reads, changes, tests, notes, or errors)", s)
}

// FileRead records that a file was examined. FileHash is nil when the file
// could not be read at logging time.
type FileRead struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	FilePath  string    `json:"file_path"`
	FileHash  *string   `json:"file_hash,omitempty"`
	ReadAt    time.Time `json:"read_at"`
	Context   string    `json:"context,omitempty"`
}

// Change records a file create/modify/delete. BeforeHash is the digest from
// the most recent read of the same path in the session, not a verified
// pre-image; AfterHash is computed fresh from disk for create/modify.
type Change struct {
	ID          int64      `json:"id"`
	SessionID   int64      `json:"session_id"`
	FilePath    string     `json:"file_path"`
	Kind        ChangeKind `json:"change_type"`
	Description string     `json:"description,omitempty"`
	BeforeHash  *string    `json:"before_hash,omitempty"`
	AfterHash   *string    `json:"after_hash,omitempty"`
	ChangedAt   time.Time  `json:"changed_at"`
}

// TestRun records one test command execution and its outcome.
type TestRun struct {
	ID        int64      `json:"id"`
	SessionID int64      `json:"session_id"`
	Command   string     `json:"command"`
	Result    TestResult `json:"result"`
	Output    *string    `json:"output,omitempty"`
	RunAt     time.Time  `json:"run_at"`
}

// Note records a free-form annotation. Tags preserve insertion order; a
// note logged without tags reads back as nil, never an empty slice.
type Note struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorEvent records an error encountered during the session.
type ErrorEvent struct {
	ID         int64     `json:"id"`
	SessionID  int64     `json:"session_id"`
	Type       string    `json:"error_type"`
	Message    string    `json:"error_message"`
	FilePath   *string   `json:"file_path,omitempty"`
	Context    *string   `json:"context,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
