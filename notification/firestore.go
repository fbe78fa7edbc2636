package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"pmdashboard/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// FirestoreMirror writes cards to Projects/{projectID}/Tasks/{taskID}.
type FirestoreMirror struct {
	client *firestore.Client
}

func NewFirestoreMirror(client *firestore.Client) *FirestoreMirror {
	return &FirestoreMirror{client: client}
}

func (m *FirestoreMirror) taskDoc(projectID, taskID int) *firestore.DocumentRef {
	return m.client.Collection("Projects").
		Doc(strconv.Itoa(projectID)).
		Collection("Tasks").
		Doc(strconv.Itoa(taskID))
}

func (m *FirestoreMirror) SyncTask(ctx context.Context, task *model.Task) error {
	_, err := m.taskDoc(task.ProjectID, task.TaskID).Set(ctx, taskCard(task))
	if err != nil {
		return fmt.Errorf("mirror task %d: %w", task.TaskID, err)
	}
	return nil
}

// RemoveProject deletes the project document and every task card under it,
// including cards left behind by earlier failed syncs.
func (m *FirestoreMirror) RemoveProject(ctx context.Context, projectID int, taskIDs []int) error {
	projectDoc := m.client.Collection("Projects").Doc(strconv.Itoa(projectID))

	refs := make(map[string]*firestore.DocumentRef, len(taskIDs))
	for _, id := range taskIDs {
		ref := m.taskDoc(projectID, id)
		refs[ref.Path] = ref
	}
	iter := projectDoc.Collection("Tasks").DocumentRefs(ctx)
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("list task cards of project %d: %w", projectID, err)
		}
		refs[ref.Path] = ref
	}

	refs[projectDoc.Path] = projectDoc

	bw := m.client.BulkWriter(ctx)
	jobs := make(map[string]writeJob, len(refs))
	for path, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return fmt.Errorf("queue delete of %s: %w", path, err)
		}
		jobs[path] = job
	}
	bw.End()
	return jobErrors(jobs)
}

// writeJob is the part of *firestore.BulkWriterJob read after End.
type writeJob interface {
	Results() (*firestore.WriteResult, error)
}

// jobErrors joins the failures of finished bulk writes, ordered by path.
func jobErrors(jobs map[string]writeJob) error {
	paths := make([]string, 0, len(jobs))
	for path := range jobs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var errs []error
	for _, path := range paths {
		if _, err := jobs[path].Results(); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// taskCard is the document shape read by realtime clients.
func taskCard(task *model.Task) map[string]interface{} {
	card := map[string]interface{}{
		"TaskID":        task.TaskID,
		"Title":         task.Title,
		"Status":        string(task.Status),
		"Priority":      string(task.Priority),
		"EstimateHours": task.EstimateHours,
		"AssignedTo":    task.AssignedToID,
		"UpdatedAt":     task.UpdatedAt,
		"SprintID":      nil,
		"DependsOn":     nil,
	}
	if task.SprintID != nil {
		card["SprintID"] = *task.SprintID
	}
	if task.DependencyTaskID != nil {
		card["DependsOn"] = *task.DependencyTaskID
	}
	return card
}
