package domain

// Wire envelopes shared by the Lambda handler and the CLI client. Field
// names and shapes are fixed by the public API contract.

// SubmitResponse is the success envelope for a translation submission.
// Translations may be absent or empty; the client then polls the output
// location until the result document appears.
type SubmitResponse struct {
	Success        bool              `json:"success"`
	TranslationID  string            `json:"translation_id"`
	InputLocation  *OutputLocation   `json:"input_location,omitempty"`
	OutputLocation OutputLocation    `json:"output_location"`
	Summary        Summary           `json:"summary"`
	Translations   TranslationResult `json:"translations,omitempty"`
	Timestamp      string            `json:"timestamp"`
}

// Summary describes what a submission processed.
type Summary struct {
	SourceLanguage        string   `json:"source_language"`
	TargetLanguages       []string `json:"target_languages"`
	SentencesProcessed    int      `json:"sentences_processed"`
	TranslationsGenerated int      `json:"translations_generated"`
}

// ErrorEnvelope is the failure envelope for any non-2xx response.
type ErrorEnvelope struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the HTTP-level code, a human-readable message, and
// the server-side timestamp of the failure.
type ErrorDetail struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// InputDocument is the audit record written to the input bucket at
// submission time. Best effort: losing it never fails the job.
type InputDocument struct {
	TranslationID string             `json:"translation_id"`
	Timestamp     string             `json:"timestamp"`
	RequestData   TranslationRequest `json:"request_data"`
	Environment   string             `json:"environment"`
}

// ResultDocument is the durable output record written to the output bucket
// and later read back by polling clients.
type ResultDocument struct {
	TranslationID  string             `json:"translation_id"`
	SourceLanguage string             `json:"source_language"`
	Timestamp      string             `json:"timestamp"`
	RequestInfo    RequestInfo        `json:"request_info"`
	Translations   TranslationResult  `json:"translations"`
	Metadata       ProcessingMetadata `json:"metadata"`
}

// RequestInfo is the request metadata embedded in a result document.
type RequestInfo struct {
	TotalSentences  int      `json:"total_sentences"`
	TargetLanguages []string `json:"target_languages"`
	Environment     string   `json:"environment"`
	InputLocation   string   `json:"input_location,omitempty"`
}

// ProcessingMetadata records how the job was executed.
type ProcessingMetadata struct {
	ProcessingTimeMS int64  `json:"processing_time_ms"`
	AWSRequestID     string `json:"aws_request_id,omitempty"`
}
