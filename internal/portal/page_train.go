package portal

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/nav"
)

type trainSettingsPage struct {
	q *Request
}

func newTrainSettingsPage(q *Request) Page {
	return &trainSettingsPage{q: q}
}

type trainSettingsContent struct {
	DatasetID string
	Params    domain.Hyperparameters
}

func (p *trainSettingsPage) Handle() error {
	q := p.q
	if q.IsPost() {
		return p.submit()
	}

	state, ok := nav.Take(q.Session, TrainSettingsRoute)
	if !ok || state.DatasetID == "" {
		// /trainSettings/{id} is the bookmarkable form.
		state.DatasetID = q.Tail()
	}
	if state.DatasetID == "" {
		q.Nav.Go(PathHome)
		return nil
	}

	content := trainSettingsContent{DatasetID: state.DatasetID, Params: domain.DefaultHyperparameters()}
	return render(q, http.StatusOK, "train_settings", "Training settings", content, nil)
}

func (p *trainSettingsPage) submit() error {
	q := p.q
	const title = "Training settings"

	rawID := strings.TrimSpace(q.R.PostFormValue("dataset_id"))
	params, formErr := parseHyperparameters(q.R)
	content := trainSettingsContent{DatasetID: rawID, Params: params}

	datasetID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || datasetID <= 0 {
		q.Nav.Go(PathHome)
		return nil
	}
	if formErr == nil {
		formErr = params.Validate()
	}
	if formErr != nil {
		return render(q, http.StatusBadRequest, "train_settings", title, content, errorNotice(formErrorText(formErr)))
	}

	task, err := q.API.CreateTrainTask(q.Context(), q.Token(), datasetID, params)
	if err != nil {
		return err
	}
	q.Log.Info("training started", "train_task_id", task.ID, "dataset_id", datasetID)
	q.Flash(domain.Notice{Text: "Training started (task " + strconv.FormatInt(task.ID, 10) + ")."})
	q.Nav.Go(PathVisualize)
	return nil
}

// parseHyperparameters reads the training form. Blank fields keep their defaults.
func parseHyperparameters(r *http.Request) (domain.Hyperparameters, error) {
	hp := domain.DefaultHyperparameters()
	var firstErr error

	intField := func(name string, dst *int) {
		v := strings.TrimSpace(r.PostFormValue(name))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			if firstErr == nil {
				firstErr = domain.ErrInvalidArgument.WithDetails(name + " must be a whole number")
			}
			return
		}
		*dst = n
	}
	floatField := func(name string, dst *float64) {
		v := strings.TrimSpace(r.PostFormValue(name))
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			if firstErr == nil {
				firstErr = domain.ErrInvalidArgument.WithDetails(name + " must be a number")
			}
			return
		}
		*dst = f
	}

	intField("embedding_size", &hp.EmbeddingSize)
	intField("epochs_to_train", &hp.EpochsToTrain)
	floatField("learning_rate", &hp.LearningRate)
	intField("num_neg_samples", &hp.NumNegSamples)
	intField("batch_size", &hp.BatchSize)
	intField("concurrent_steps", &hp.ConcurrentSteps)
	intField("window_size", &hp.WindowSize)
	intField("min_count", &hp.MinCount)
	floatField("subsample", &hp.Subsample)

	return hp, firstErr
}

// formErrorText returns the user-facing part of a validation error.
func formErrorText(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) && de.Details != "" {
		return "Invalid setting: " + strings.ReplaceAll(de.Details, "_", " ") + "."
	}
	return "Invalid settings."
}
