package domain

import (
	"strconv"
	"strings"
)

// Dataset is a filter task on the backend. Each completed filter task owns
// the dataset of papers matching its keywords.
type Dataset struct {
	TaskID     int64  `json:"id"`
	DatasetID  *int64 `json:"dataset_id,omitempty"`
	Keywords   string `json:"keywords"`
	Created    string `json:"created"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	IsComplete bool   `json:"is_complete"`
	IsError    bool   `json:"is_error"`
	NumPapers  *int   `json:"num_papers,omitempty"`
}

// ID returns the identifier used to address the dataset in train requests.
//
// The backend's filter task listing does not serialize dataset_id, so the
// filter task ID is the normal result. It is sent as dataset_id on the
// assumption that the backend creates one dataset row per filter task in
// the same order, which keeps the two IDs equal. dataset_id wins when a
// backend does report it.
func (d Dataset) ID() string {
	if d.DatasetID != nil {
		return strconv.FormatInt(*d.DatasetID, 10)
	}
	return strconv.FormatInt(d.TaskID, 10)
}

// Title returns the display title of the dataset.
func (d Dataset) Title() string {
	return d.Keywords
}

// Date returns the calendar date part of the creation timestamp.
func (d Dataset) Date() string {
	if i := strings.IndexAny(d.Created, "T "); i > 0 {
		return d.Created[:i]
	}
	return d.Created
}

// Fetching reports whether the backend is still collecting papers.
func (d Dataset) Fetching() bool {
	return !d.IsComplete && !d.IsError
}

// Hyperparameters are the word2vec training settings accepted by the backend.
type Hyperparameters struct {
	EmbeddingSize   int     `json:"embedding_size"`
	EpochsToTrain   int     `json:"epochs_to_train"`
	LearningRate    float64 `json:"learning_rate"`
	NumNegSamples   int     `json:"num_neg_samples"`
	BatchSize       int     `json:"batch_size"`
	ConcurrentSteps int     `json:"concurrent_steps"`
	WindowSize      int     `json:"window_size"`
	MinCount        int     `json:"min_count"`
	Subsample       float64 `json:"subsample"`
}

// DefaultHyperparameters returns the trainer's default settings.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		EmbeddingSize:   200,
		EpochsToTrain:   15,
		LearningRate:    0.2,
		NumNegSamples:   100,
		BatchSize:       16,
		ConcurrentSteps: 12,
		WindowSize:      5,
		MinCount:        5,
		Subsample:       1e-3,
	}
}

// Validate checks the settings are usable by the trainer.
func (h Hyperparameters) Validate() error {
	switch {
	case h.EmbeddingSize <= 0:
		return ErrInvalidArgument.WithDetails("embedding_size must be positive")
	case h.EpochsToTrain <= 0:
		return ErrInvalidArgument.WithDetails("epochs_to_train must be positive")
	case h.LearningRate <= 0:
		return ErrInvalidArgument.WithDetails("learning_rate must be positive")
	case h.NumNegSamples < 0:
		return ErrInvalidArgument.WithDetails("num_neg_samples must not be negative")
	case h.BatchSize <= 0:
		return ErrInvalidArgument.WithDetails("batch_size must be positive")
	case h.ConcurrentSteps <= 0:
		return ErrInvalidArgument.WithDetails("concurrent_steps must be positive")
	case h.WindowSize <= 0:
		return ErrInvalidArgument.WithDetails("window_size must be positive")
	case h.MinCount < 0:
		return ErrInvalidArgument.WithDetails("min_count must not be negative")
	case h.Subsample < 0:
		return ErrInvalidArgument.WithDetails("subsample must not be negative")
	}
	return nil
}

// TrainTask is a word2vec training job on the backend.
type TrainTask struct {
	ID         int64  `json:"id"`
	DatasetID  int64  `json:"dataset_id"`
	HParams    string `json:"hparams"`
	Created    string `json:"created"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	IsComplete bool   `json:"is_complete"`
	IsError    bool   `json:"is_error"`
}

// AnalogyTest is an analogy test task on the backend.
type AnalogyTest struct {
	ID             int64    `json:"id"`
	TrainedModelID int64    `json:"trained_model_id"`
	Domain1Name    string   `json:"domain1_name"`
	Domain2Name    string   `json:"domain2_name"`
	Domain3Name    string   `json:"domain3_name"`
	Domain1Words   []string `json:"domain1_words"`
	Domain2Words   []string `json:"domain2_words"`
	Domain3Words   []string `json:"domain3_words"`
	Created        string   `json:"created,omitempty"`
	IsComplete     bool     `json:"is_complete"`
	IsError        bool     `json:"is_error"`
}

// AnalogyTestResultRow is one scored analogy of a finished test.
type AnalogyTestResultRow struct {
	ID      int64   `json:"id"`
	Word1   string  `json:"word1"`
	Word2   string  `json:"word2"`
	Word3   string  `json:"word3"`
	Word4   string  `json:"word4"`
	Score   float64 `json:"score"`
	IsFound bool    `json:"is_found"`
}

// AnalogyTestResult is the outcome of a finished analogy test.
type AnalogyTestResult struct {
	ID   int64                  `json:"id"`
	Rows []AnalogyTestResultRow `json:"rows"`
}

// SplitWords turns a comma or newline separated form value into words.
// Blank entries are dropped and surrounding space is trimmed.
func SplitWords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := strings.TrimSpace(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}
