package cpm

import "slices"

// Reserved codes of the synthetic anchor tasks.
const (
	StartCode = "START"
	EndCode   = "END"
)

// Crew is the work crew assigned to a task.
type Crew struct {
	Name string `json:"name,omitempty"`
	Size int    `json:"size"`
}

// Equipment is a piece of equipment a task needs. It is carried through
// the computation untouched.
type Equipment struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Task is one schedulable unit of work.
//
// Code identifies the task within one computation. Dependencies lists the
// codes of tasks that must finish before this one starts; an empty list
// makes the task a root.
type Task struct {
	Code          string      `json:"code"`
	OperationName string      `json:"operation_name,omitempty"`
	ElementName   string      `json:"element_name,omitempty"`
	Duration      int         `json:"duration"`
	Crew          Crew        `json:"crew"`
	Equipment     []Equipment `json:"equipment,omitempty"`
	Dependencies  []string    `json:"dependencies,omitempty"`
}

// IsAnchor reports whether t is one of the synthetic START/END tasks.
func (t Task) IsAnchor() bool { return IsAnchorCode(t.Code) }

// IsAnchorCode reports whether code is reserved for an anchor task.
func IsAnchorCode(code string) bool { return code == StartCode || code == EndCode }

// clone returns a copy of t that shares no slices with it.
func (t Task) clone() Task {
	t.Equipment = slices.Clone(t.Equipment)
	t.Dependencies = slices.Clone(t.Dependencies)
	return t
}

func anchorTask(code string, deps []string) Task {
	return Task{
		Code:          code,
		OperationName: code,
		Dependencies:  deps,
	}
}
