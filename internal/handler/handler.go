// Package handler provides the Lambda handler for the translation platform.
// It parses the incoming event, validates the request, runs the translation
// fan-out, persists both job documents, and shapes the wire envelopes.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"

	"github.com/lexiflow/translation-platform/internal/domain"
	"github.com/lexiflow/translation-platform/internal/orchestrator"
	"github.com/lexiflow/translation-platform/internal/persist"
	"github.com/lexiflow/translation-platform/internal/validate"
)

// requiredFields are checked before structural validation so a missing field
// gets its own message.
var requiredFields = []string{"source_language", "target_languages", "sentences"}

// corsHeaders are attached to every response.
var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Api-Key",
	"Access-Control-Allow-Methods": "POST,OPTIONS",
}

// Handler wires the server-side pipeline for one Lambda invocation.
type Handler struct {
	orch      *orchestrator.Orchestrator
	persister *persist.Persister
	log       zerolog.Logger
	now       func() time.Time
}

// New creates a Handler.
func New(orch *orchestrator.Orchestrator, persister *persist.Persister, log zerolog.Logger) *Handler {
	return &Handler{
		orch:      orch,
		persister: persister,
		log:       log,
		now:       time.Now,
	}
}

// Handle processes one translation submission event. The event may be an
// API Gateway proxy request (body nested, possibly base64) or a direct
// invocation carrying the request at the top level.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	raw, err := extractBody(event)
	if err != nil {
		return h.errorResponse(http.StatusBadRequest, "Invalid JSON in request body"), nil
	}

	if missing, ok := missingField(raw); !ok {
		return h.errorResponse(http.StatusBadRequest, fmt.Sprintf("Missing required field: %s", missing)), nil
	}

	var req domain.TranslationRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return h.errorResponse(http.StatusBadRequest, "Invalid JSON in request body"), nil
	}

	if err := validate.Request(req); err != nil {
		return h.errorResponse(http.StatusBadRequest, validationMessage(err)), nil
	}

	jobID := orchestrator.NewJobID()
	submittedAt := h.now()
	started := submittedAt

	h.log.Info().
		Str("translation_id", jobID).
		Str("source_language", req.SourceLanguage).
		Strs("target_languages", req.TargetLanguages).
		Int("sentences", len(req.Sentences)).
		Msg("processing translation request")

	inputLoc := h.persister.StoreAudit(ctx, jobID, submittedAt, req)

	result := h.orch.Run(ctx, jobID, req)

	meta := domain.ProcessingMetadata{
		ProcessingTimeMS: h.now().Sub(started).Milliseconds(),
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		meta.AWSRequestID = lc.AwsRequestID
	}

	outputLoc, err := h.persister.StoreResult(ctx, jobID, submittedAt, req, result, inputLoc, meta)
	if err != nil {
		h.log.Error().Err(err).Str("translation_id", jobID).Msg("failed to persist result")
		return h.errorResponse(http.StatusInternalServerError, "Internal server error"), nil
	}

	h.log.Info().Str("translation_id", jobID).Msg("translation completed")

	resp := domain.SubmitResponse{
		Success:        true,
		TranslationID:  jobID,
		OutputLocation: outputLoc,
		Summary: domain.Summary{
			SourceLanguage:        req.SourceLanguage,
			TargetLanguages:       req.TargetLanguages,
			SentencesProcessed:    len(req.Sentences),
			TranslationsGenerated: result.Generated(),
		},
		Translations: result,
		Timestamp:    submittedAt.UTC().Format(time.RFC3339),
	}
	if !inputLoc.IsZero() {
		resp.InputLocation = &inputLoc
	}

	return jsonResponse(http.StatusOK, resp), nil
}

// extractBody returns the request JSON whether the event is an API Gateway
// proxy request or the request itself.
func extractBody(event json.RawMessage) (json.RawMessage, error) {
	var envelope struct {
		Body            *string `json:"body"`
		IsBase64Encoded bool    `json:"isBase64Encoded"`
	}
	if err := json.Unmarshal(event, &envelope); err != nil {
		return nil, err
	}

	if envelope.Body == nil {
		return event, nil
	}

	body := []byte(*envelope.Body)
	if envelope.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(*envelope.Body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	if !json.Valid(body) {
		return nil, errors.New("body is not valid JSON")
	}
	return body, nil
}

// missingField reports the first required field absent from the payload.
func missingField(raw json.RawMessage) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", true // malformed shapes fall through to struct decoding
	}
	for _, field := range requiredFields {
		if _, ok := fields[field]; !ok {
			return field, false
		}
	}
	return "", true
}

// validationMessage strips the sentinel prefix so the wire message matches
// the documented rule text exactly.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}

func (h *Handler) errorResponse(code int, message string) events.APIGatewayProxyResponse {
	if code >= http.StatusInternalServerError {
		h.log.Error().Int("code", code).Str("message", message).Msg("request failed")
	} else {
		h.log.Warn().Int("code", code).Str("message", message).Msg("request rejected")
	}

	return jsonResponse(code, domain.ErrorEnvelope{
		Success: false,
		Error: domain.ErrorDetail{
			Code:      code,
			Message:   message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func jsonResponse(code int, payload interface{}) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(payload)
	return events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}
