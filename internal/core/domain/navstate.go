package domain

// TrainSettingsState is the payload a dataset list item hands to the
// training configuration view.
type TrainSettingsState struct {
	DatasetID string `json:"datasetId"`
}

// AnalogyTestFormState preselects the trained model on the analogy test form.
type AnalogyTestFormState struct {
	TrainedModelID string `json:"trainedModelId"`
}

// Notice is a one-shot message shown on the destination view's first render.
type Notice struct {
	Text  string `json:"text"`
	Error bool   `json:"error,omitempty"`
}
