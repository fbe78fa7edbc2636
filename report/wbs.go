// Package report derives read-only views from loaded entities: the work
// breakdown structure, timeline, kanban board, rollups and CSV exports.
// Nothing here touches the store.
package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"pmdashboard/apperr"
	"pmdashboard/model"
)

// WBSNode is one task in the dependency tree. Children depend on it.
type WBSNode struct {
	TaskID        int                `json:"task_id"`
	Title         string             `json:"title"`
	Status        model.TaskStatus   `json:"status"`
	Priority      model.TaskPriority `json:"priority"`
	EstimateHours float64            `json:"estimate_hours"`
	Level         int                `json:"level"`
	Children      []*WBSNode         `json:"children"`
}

// CycleError reports a dependency cycle. Path lists task ids from a task to
// the tasks depending on it and back to the first one.
type CycleError struct {
	Path []int
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("task dependencies form a cycle: %s", strings.Join(parts, " -> "))
}

func (e *CycleError) Unwrap() error { return apperr.ErrCyclicDependency }

// BuildWBS arranges tasks into a forest. Roots are tasks without a dependency
// or whose dependency is not among tasks; children are ordered by id. A cycle
// among the tasks is reported as a *CycleError.
func BuildWBS(tasks []model.Task) ([]*WBSNode, error) {
	byID := make(map[int]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].TaskID] = &tasks[i]
	}

	children := make(map[int][]int)
	var roots []int
	for _, t := range tasks {
		if t.DependencyTaskID == nil {
			roots = append(roots, t.TaskID)
			continue
		}
		if _, ok := byID[*t.DependencyTaskID]; !ok {
			roots = append(roots, t.TaskID)
			continue
		}
		children[*t.DependencyTaskID] = append(children[*t.DependencyTaskID], t.TaskID)
	}
	slices.Sort(roots)
	for _, ids := range children {
		slices.Sort(ids)
	}

	visited := make(map[int]bool, len(tasks))
	var build func(id, level int) *WBSNode
	build = func(id, level int) *WBSNode {
		visited[id] = true
		t := byID[id]
		node := &WBSNode{
			TaskID:        t.TaskID,
			Title:         t.Title,
			Status:        t.Status,
			Priority:      t.Priority,
			EstimateHours: t.EstimateHours,
			Level:         level,
			Children:      []*WBSNode{},
		}
		for _, child := range children[id] {
			node.Children = append(node.Children, build(child, level+1))
		}
		return node
	}

	forest := make([]*WBSNode, 0, len(roots))
	for _, id := range roots {
		forest = append(forest, build(id, 0))
	}

	// Each task has at most one dependency, so anything unreachable from a
	// root sits on or below a cycle.
	if len(visited) < len(byID) {
		ids := make([]int, 0, len(byID))
		for id := range byID {
			if !visited[id] {
				ids = append(ids, id)
			}
		}
		slices.Sort(ids)
		return nil, &CycleError{Path: cycleFrom(ids[0], func(id int) (int, bool) {
			t := byID[id]
			if t == nil || t.DependencyTaskID == nil {
				return 0, false
			}
			return *t.DependencyTaskID, true
		})}
	}
	return forest, nil
}

// cycleFrom follows dependencies from start until one repeats and returns the
// cycle in dependent order, rotated to begin at its smallest id and closed
// with that id.
func cycleFrom(start int, dependencyOf func(int) (int, bool)) []int {
	seen := map[int]int{}
	var chain []int
	cur := start
	for {
		if at, ok := seen[cur]; ok {
			chain = chain[at:]
			break
		}
		seen[cur] = len(chain)
		chain = append(chain, cur)
		next, ok := dependencyOf(cur)
		if !ok {
			return nil
		}
		cur = next
	}

	slices.Reverse(chain)
	minIdx := 0
	for i, id := range chain {
		if id < chain[minIdx] {
			minIdx = i
		}
	}
	path := make([]int, 0, len(chain)+1)
	for i := range chain {
		path = append(path, chain[(minIdx+i)%len(chain)])
	}
	return append(path, path[0])
}

// WouldCycle reports whether making taskID depend on dependsOnID closes a
// cycle among tasks. The returned error carries the cycle path.
func WouldCycle(tasks []model.Task, taskID, dependsOnID int) error {
	if taskID == dependsOnID {
		return &CycleError{Path: []int{taskID, taskID}}
	}
	deps := make(map[int]int, len(tasks))
	for _, t := range tasks {
		if t.DependencyTaskID != nil {
			deps[t.TaskID] = *t.DependencyTaskID
		}
	}
	deps[taskID] = dependsOnID

	// Walk up from dependsOnID; reaching taskID means the new edge closes a loop.
	seen := map[int]bool{}
	for cur := dependsOnID; ; {
		if cur == taskID {
			return &CycleError{Path: cycleFrom(taskID, func(id int) (int, bool) {
				next, ok := deps[id]
				return next, ok
			})}
		}
		if seen[cur] {
			return nil
		}
		seen[cur] = true
		next, ok := deps[cur]
		if !ok {
			return nil
		}
		cur = next
	}
}

// Flatten lists the forest depth first.
func Flatten(forest []*WBSNode) []*WBSNode {
	var out []*WBSNode
	var walk func(nodes []*WBSNode)
	walk = func(nodes []*WBSNode) {
		for _, n := range nodes {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(forest)
	return out
}
