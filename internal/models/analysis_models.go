package models

// SentimentAnalysis is the adapter-neutral result of a sentiment call.
type SentimentAnalysis struct {
	Label  string
	Scores map[string]float32
}

// SummaryRequest is the payload sent to the summarization endpoint.
type SummaryRequest struct {
	TextInputs string `json:"text_inputs"`
}

// SummaryResponse carries the endpoint output. GeneratedText is nil when the
// model returned no generated_text field.
type SummaryResponse struct {
	GeneratedText *string `json:"generated_text"`
}
