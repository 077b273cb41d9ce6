package portal

import (
	"net/http"
	"strings"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/nav"
)

type homePage struct {
	q *Request
}

func newHomePage(q *Request) Page {
	return &homePage{q: q}
}

// datasetItem is one row of the dataset list.
type datasetItem struct {
	ID       string
	Title    string
	Date     string
	Papers   string
	Fetching bool
	Failed   bool
}

func newDatasetItem(d domain.Dataset) datasetItem {
	return datasetItem{
		ID:       d.ID(),
		Title:    d.Title(),
		Date:     d.Date(),
		Papers:   papersLabel(d.NumPapers),
		Fetching: d.Fetching(),
		Failed:   d.IsError,
	}
}

type homeContent struct {
	Datasets []datasetItem
}

func (p *homePage) Handle() error {
	q := p.q
	if q.IsPost() {
		return p.submit()
	}

	datasets, err := q.API.ListDatasets(q.Context(), q.Token())
	if err != nil {
		return err
	}

	items := make([]datasetItem, 0, len(datasets))
	for _, d := range datasets {
		items = append(items, newDatasetItem(d))
	}
	return render(q, http.StatusOK, "home", "Datasets", homeContent{Datasets: items}, nil)
}

func (p *homePage) submit() error {
	q := p.q
	switch q.R.PostFormValue("action") {
	case "train":
		id := strings.TrimSpace(q.R.PostFormValue("dataset_id"))
		if id == "" {
			return domain.ErrMissingArgument.WithDetails("dataset_id")
		}
		return nav.GoWith(q.Nav, TrainSettingsRoute, domain.TrainSettingsState{DatasetID: id})

	case "create":
		keywords := domain.SplitWords(q.R.PostFormValue("keywords"))
		if len(keywords) == 0 {
			q.Flash(domain.Notice{Text: "Enter at least one keyword.", Error: true})
			q.Nav.Go(PathHome)
			return nil
		}
		ds, err := q.API.CreateDataset(q.Context(), q.Token(), keywords)
		if err != nil {
			return err
		}
		q.Log.Info("dataset requested", "filter_task_id", ds.TaskID)
		q.Flash(domain.Notice{Text: "Dataset \"" + strings.Join(keywords, " ") + "\" is being collected."})
		q.Nav.Go(PathHome)
		return nil

	default:
		return domain.ErrBadRequest.WithDetails("unknown action")
	}
}
