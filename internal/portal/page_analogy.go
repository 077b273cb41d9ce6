package portal

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/gateway"
	"github.com/yndnr/dms-portal/internal/nav"
)

type analogyTestPage struct {
	q *Request
}

func newAnalogyTestPage(q *Request) Page {
	return &analogyTestPage{q: q}
}

type analogyTestContent struct {
	Tests  []domain.AnalogyTest
	TestID int64
	Result *domain.AnalogyTestResult
}

// Handle lists analogy tests, or shows one result at /analogyTest/{id}.
func (p *analogyTestPage) Handle() error {
	q := p.q
	const title = "Analogy tests"

	if q.IsPost() {
		return p.submit()
	}

	if tail := q.Tail(); tail != "" {
		id, err := strconv.ParseInt(tail, 10, 64)
		if err != nil || id <= 0 {
			return domain.ErrInvalidArgument.WithDetails("analogy test id")
		}
		result, err := q.API.AnalogyTestResult(q.Context(), q.Token(), id)
		if gateway.StatusOf(err) == http.StatusNotFound {
			return render(q, http.StatusOK, "analogy_test", title, analogyTestContent{TestID: id},
				&domain.Notice{Text: "The result of this test is not ready yet."})
		}
		if err != nil {
			return err
		}
		return render(q, http.StatusOK, "analogy_test", title, analogyTestContent{TestID: id, Result: &result}, nil)
	}

	tests, err := q.API.ListAnalogyTests(q.Context(), q.Token())
	if err != nil {
		return err
	}
	return render(q, http.StatusOK, "analogy_test", title, analogyTestContent{Tests: tests}, nil)
}

// submit starts a new test form preset to the chosen model.
func (p *analogyTestPage) submit() error {
	q := p.q
	modelID := strings.TrimSpace(q.R.PostFormValue("trained_model_id"))
	return nav.GoWith(q.Nav, AnalogyTestFormRoute, domain.AnalogyTestFormState{TrainedModelID: modelID})
}

type analogyTestFormPage struct {
	q *Request
}

func newAnalogyTestFormPage(q *Request) Page {
	return &analogyTestFormPage{q: q}
}

type analogyTestFormContent struct {
	TrainedModelID string
	Names          [3]string
	Words          [3]string
}

func (p *analogyTestFormPage) Handle() error {
	q := p.q
	const title = "New analogy test"

	if q.IsPost() {
		return p.submit()
	}

	state, ok := nav.Take(q.Session, AnalogyTestFormRoute)
	if !ok || state.TrainedModelID == "" {
		state.TrainedModelID = q.Tail()
	}
	return render(q, http.StatusOK, "analogy_test_form", title, analogyTestFormContent{TrainedModelID: state.TrainedModelID}, nil)
}

func (p *analogyTestFormPage) submit() error {
	q := p.q
	const title = "New analogy test"

	content := analogyTestFormContent{TrainedModelID: strings.TrimSpace(q.R.PostFormValue("trained_model_id"))}
	for i := range content.Names {
		n := strconv.Itoa(i + 1)
		content.Names[i] = strings.TrimSpace(q.R.PostFormValue("domain" + n + "_name"))
		content.Words[i] = q.R.PostFormValue("domain" + n + "_words")
	}

	fail := func(text string) error {
		return render(q, http.StatusBadRequest, "analogy_test_form", title, content, errorNotice(text))
	}

	modelID, err := strconv.ParseInt(content.TrainedModelID, 10, 64)
	if err != nil || modelID <= 0 {
		return fail("Enter the ID of a trained model.")
	}

	req := gateway.AnalogyTestRequest{TrainedModelID: modelID}
	names := [3]*string{&req.Domain1Name, &req.Domain2Name, &req.Domain3Name}
	words := [3]*[]string{&req.Domain1Words, &req.Domain2Words, &req.Domain3Words}
	for i := range content.Names {
		if content.Names[i] == "" {
			return fail("Every domain needs a name.")
		}
		w := domain.SplitWords(content.Words[i])
		if len(w) == 0 {
			return fail("Every domain needs at least one word.")
		}
		*names[i] = content.Names[i]
		*words[i] = w
	}

	test, err := q.API.CreateAnalogyTest(q.Context(), q.Token(), req)
	if err != nil {
		return err
	}
	q.Log.Info("analogy test started", "analogy_test_id", test.ID, "trained_model_id", modelID)
	q.Flash(domain.Notice{Text: "Analogy test started (test " + strconv.FormatInt(test.ID, 10) + ")."})
	q.Nav.Go(PathAnalogyTest)
	return nil
}
