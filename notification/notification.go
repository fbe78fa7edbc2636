// Package notification pushes task changes to realtime clients: cards are
// mirrored to Firestore and assignees are notified over Cloud Messaging.
// Both are best effort; the relational store stays the source of truth.
package notification

import (
	"context"

	"pmdashboard/model"
)

// Mirror keeps a realtime copy of kanban cards.
type Mirror interface {
	SyncTask(ctx context.Context, task *model.Task) error
	RemoveProject(ctx context.Context, projectID int, taskIDs []int) error
}

// Notifier delivers push notifications.
type Notifier interface {
	TaskAssigned(ctx context.Context, task *model.Task) error
	ProjectDueSoon(ctx context.Context, project *model.Project) error
}

// Nop implements Mirror and Notifier without side effects. It is used when
// Firebase is not configured.
type Nop struct{}

func (Nop) SyncTask(context.Context, *model.Task) error          { return nil }
func (Nop) RemoveProject(context.Context, int, []int) error      { return nil }
func (Nop) TaskAssigned(context.Context, *model.Task) error      { return nil }
func (Nop) ProjectDueSoon(context.Context, *model.Project) error { return nil }
