package opusmt

// apiRequest is the Hugging Face inference payload for translation models.
type apiRequest struct {
	Inputs  string     `json:"inputs"`
	Options apiOptions `json:"options"`
}

type apiOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// apiTranslation is one element of the inference response array.
type apiTranslation struct {
	TranslationText string `json:"translation_text"`
}

// apiError is returned with non-2xx statuses, e.g. while the model is loading.
type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}
