package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yndnr/dms-portal/internal/core/domain"
)

// Backend endpoints used by the portal.
const (
	PathLogin          = "/auth/login"
	PathLogout         = "/auth/logout"
	PathUpdatePassword = "/auth/update-password"
	PathRegister       = "/register"
	PathFilterTask     = "/filter-task"
	PathTrainTask      = "/train-task"
	PathVisualize      = "/visualize"
	PathAnalogyTest    = "/analogy-test-task"
	PathHealth         = "/health"
)

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a backend session token.
// A wrong username or password is a 401 RequestError.
func (c *Client) Login(ctx context.Context, creds Credentials) (domain.Token, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.Do(ctx, http.MethodPost, PathLogin, "", creds, &out); err != nil {
		return "", err
	}
	tok := domain.Token(out.Token)
	if !tok.Present() {
		return "", domain.ErrInternal.WithDetails("login reply carried no token")
	}
	return tok, nil
}

// Logout ends the backend session of token.
func (c *Client) Logout(ctx context.Context, token domain.Token) error {
	return c.Do(ctx, http.MethodPost, PathLogout, token, nil, nil)
}

// UpdatePassword changes the password of the token's user.
// A wrong old password is a 401 RequestError.
func (c *Client) UpdatePassword(ctx context.Context, token domain.Token, oldPassword, newPassword string) error {
	body := struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}{oldPassword, newPassword}
	return c.Do(ctx, http.MethodPost, PathUpdatePassword, token, body, nil)
}

// RequestAccount asks an administrator for an account.
// An already requested or existing account is a 409 RequestError.
func (c *Client) RequestAccount(ctx context.Context, email, username string) error {
	body := struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}{email, username}
	return c.Do(ctx, http.MethodPost, PathRegister, "", body, nil)
}

// ListDatasets returns the user's filter tasks.
func (c *Client) ListDatasets(ctx context.Context, token domain.Token) ([]domain.Dataset, error) {
	var out []domain.Dataset
	if err := c.Do(ctx, http.MethodGet, PathFilterTask, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDataset starts a filter task collecting papers matching keywords.
func (c *Client) CreateDataset(ctx context.Context, token domain.Token, keywords []string) (domain.Dataset, error) {
	body := struct {
		Keywords []string `json:"keywords"`
	}{keywords}
	var out domain.Dataset
	err := c.Do(ctx, http.MethodPost, PathFilterTask, token, body, &out)
	return out, err
}

// CreateTrainTask starts training on a dataset.
func (c *Client) CreateTrainTask(ctx context.Context, token domain.Token, datasetID int64, hp domain.Hyperparameters) (domain.TrainTask, error) {
	body := struct {
		HParams   domain.Hyperparameters `json:"hparams"`
		DatasetID int64                  `json:"dataset_id"`
	}{hp, datasetID}
	var out domain.TrainTask
	err := c.Do(ctx, http.MethodPost, PathTrainTask, token, body, &out)
	return out, err
}

// ListTrainTasks returns training jobs, optionally limited to one dataset.
// A datasetID of zero lists all.
func (c *Client) ListTrainTasks(ctx context.Context, token domain.Token, datasetID int64) ([]domain.TrainTask, error) {
	path := PathTrainTask
	if datasetID != 0 {
		path += "?" + url.Values{"dataset_id": {strconv.FormatInt(datasetID, 10)}}.Encode()
	}
	var out []domain.TrainTask
	if err := c.Do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Visualization returns the stored visualization of a trained model as raw JSON.
func (c *Client) Visualization(ctx context.Context, token domain.Token, trainTaskID int64) (json.RawMessage, error) {
	path := PathVisualize + "?" + url.Values{"train_task_id": {strconv.FormatInt(trainTaskID, 10)}}.Encode()
	var out json.RawMessage
	if err := c.Do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalogyTestRequest is the body of a new analogy test.
type AnalogyTestRequest struct {
	TrainedModelID int64    `json:"trained_model_id"`
	Domain1Name    string   `json:"domain1_name"`
	Domain2Name    string   `json:"domain2_name"`
	Domain3Name    string   `json:"domain3_name"`
	Domain1Words   []string `json:"domain1_words"`
	Domain2Words   []string `json:"domain2_words"`
	Domain3Words   []string `json:"domain3_words"`
}

// CreateAnalogyTest starts an analogy test on a trained model.
func (c *Client) CreateAnalogyTest(ctx context.Context, token domain.Token, req AnalogyTestRequest) (domain.AnalogyTest, error) {
	var out domain.AnalogyTest
	err := c.Do(ctx, http.MethodPost, PathAnalogyTest, token, req, &out)
	return out, err
}

// ListAnalogyTests returns the user's analogy tests.
func (c *Client) ListAnalogyTests(ctx context.Context, token domain.Token) ([]domain.AnalogyTest, error) {
	var out []domain.AnalogyTest
	if err := c.Do(ctx, http.MethodGet, PathAnalogyTest, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalogyTestResult returns the scored rows of a finished analogy test.
// An unfinished test is a 404 RequestError.
func (c *Client) AnalogyTestResult(ctx context.Context, token domain.Token, testID int64) (domain.AnalogyTestResult, error) {
	path := PathAnalogyTest + "/" + strconv.FormatInt(testID, 10) + "/result"
	var out domain.AnalogyTestResult
	err := c.Do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

// Health calls the backend health check and returns its message.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.Do(ctx, http.MethodGet, PathHealth, "", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
