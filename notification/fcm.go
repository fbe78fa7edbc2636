package notification

import (
	"context"
	"fmt"
	"strconv"

	"pmdashboard/model"

	"firebase.google.com/go/v4/messaging"
)

// UserTopic is the FCM topic a user's devices subscribe to.
func UserTopic(userID int) string { return fmt.Sprintf("user-%d", userID) }

// ProjectTopic is the FCM topic for a project's members.
func ProjectTopic(projectID int) string { return fmt.Sprintf("project-%d", projectID) }

// Sender is the subset of *messaging.Client used here.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier sends topic messages through Firebase Cloud Messaging.
type FCMNotifier struct {
	client Sender
}

func NewFCMNotifier(client Sender) *FCMNotifier {
	return &FCMNotifier{client: client}
}

func (n *FCMNotifier) TaskAssigned(ctx context.Context, task *model.Task) error {
	if task.AssignedToID == 0 {
		return nil
	}
	msg := &messaging.Message{
		Topic: UserTopic(task.AssignedToID),
		Notification: &messaging.Notification{
			Title: "New task assigned",
			Body:  task.Title,
		},
		Data: map[string]string{
			"task_id":    strconv.Itoa(task.TaskID),
			"project_id": strconv.Itoa(task.ProjectID),
		},
	}
	if _, err := n.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

func (n *FCMNotifier) ProjectDueSoon(ctx context.Context, project *model.Project) error {
	body := project.Name
	if project.DueDate != nil {
		body = fmt.Sprintf("%s is due on %s", project.Name, project.DueDate.Format("2006-01-02"))
	}
	msg := &messaging.Message{
		Topic: ProjectTopic(project.ProjectID),
		Notification: &messaging.Notification{
			Title: "Project due soon",
			Body:  body,
		},
		Data: map[string]string{
			"project_id": strconv.Itoa(project.ProjectID),
		},
	}
	if _, err := n.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}
