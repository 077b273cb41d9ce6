package portal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/yndnr/dms-portal/internal/core/domain"
)

type visualizePage struct {
	q *Request
}

func newVisualizePage(q *Request) Page {
	return &visualizePage{q: q}
}

type trainTaskItem struct {
	ID      int64
	Created string
	Status  string
	Ready   bool
}

func newTrainTaskItem(t domain.TrainTask) trainTaskItem {
	status := "Training"
	switch {
	case t.IsError:
		status = "Failed"
	case t.IsComplete:
		status = "Complete"
	}
	return trainTaskItem{ID: t.ID, Created: t.Created, Status: status, Ready: t.IsComplete && !t.IsError}
}

type visualizeContent struct {
	Tasks         []trainTaskItem
	TrainTaskID   int64
	Visualization string
}

// Handle lists training tasks, or shows one task's visualization when
// addressed as /visualize/{id} or /visualize?train_task_id={id}.
func (p *visualizePage) Handle() error {
	q := p.q
	const title = "Visualize"

	rawID := q.R.URL.Query().Get("train_task_id")
	if rawID == "" {
		rawID = q.Tail()
	}

	if rawID == "" {
		tasks, err := q.API.ListTrainTasks(q.Context(), q.Token(), 0)
		if err != nil {
			return err
		}
		items := make([]trainTaskItem, 0, len(tasks))
		for _, t := range tasks {
			items = append(items, newTrainTaskItem(t))
		}
		return render(q, http.StatusOK, "visualize", title, visualizeContent{Tasks: items}, nil)
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return domain.ErrInvalidArgument.WithDetails("train_task_id")
	}

	raw, err := q.API.Visualization(q.Context(), q.Token(), id)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(raw)
	}
	content := visualizeContent{TrainTaskID: id, Visualization: pretty.String()}
	return render(q, http.StatusOK, "visualize", title, content, nil)
}
