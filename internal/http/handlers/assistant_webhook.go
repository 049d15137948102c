package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinique-avenir/voice-receptionist/internal/booking"
	"github.com/clinique-avenir/voice-receptionist/internal/observability/metrics"
	"github.com/clinique-avenir/voice-receptionist/pkg/logging"
)

// ----- Assistant webhook event types -----

// ToolEvent is the payload the voice assistant platform posts when its LLM
// invokes one of our webhook tools mid-call. The endpoint is registered as
// a tool on the assistant; arguments arrive pre-extracted by the LLM.
type ToolEvent struct {
	// AssistantID identifies the assistant that originated the event.
	AssistantID string `json:"assistant_id,omitempty"`
	// ConversationID groups turns within a single call.
	ConversationID string `json:"conversation_id,omitempty"`
	// ToolCallID must be echoed back so the platform can correlate the result.
	ToolCallID string `json:"tool_call_id,omitempty"`
	// ToolName selects the tool: checkAvailability, bookAppointment or getInfo.
	ToolName string `json:"tool_name,omitempty"`
	// Arguments holds the tool-specific arguments, decoded per tool.
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolResponse is the JSON body returned to the platform. Response is the
// text its TTS engine speaks to the caller.
type ToolResponse struct {
	ToolCallID string `json:"tool_call_id"`
	Response   string `json:"response"`
}

// ToolErrorResponse is returned when the event itself cannot be processed.
type ToolErrorResponse struct {
	ToolCallID string `json:"tool_call_id,omitempty"`
	Error      string `json:"error"`
}

type checkAvailabilityArgs struct {
	Date        string `json:"date"`
	ServiceType string `json:"serviceType"`
}

type bookAppointmentArgs struct {
	Start       int64               `json:"start"`
	End         int64               `json:"end"`
	PatientInfo booking.PatientInfo `json:"patientInfo"`
}

type getInfoArgs struct {
	Question string `json:"question"`
}

// ----- Handler -----

// bookingService is the slice of the booking coordinator the handler needs.
type bookingService interface {
	CheckAvailability(ctx context.Context, conversationID, dateText, serviceType string) (string, error)
	Book(ctx context.Context, conversationID string, startUnix, endUnix int64, patient booking.PatientInfo) (string, error)
}

// infoService answers free-form questions about the clinic.
type infoService interface {
	Answer(ctx context.Context, question string) string
}

// AssistantWebhookHandler receives tool calls from the voice assistant,
// routes them to the booking coordinator or the knowledge store, and
// returns text for TTS. Every tool outcome, including failures the caller
// can recover from, is spoken back in French.
type AssistantWebhookHandler struct {
	coordinator bookingService
	info        infoService
	assistantID string
	logger      *logging.Logger
	metrics     *metrics.BookingMetrics
}

// AssistantWebhookHandlerConfig configures the AssistantWebhookHandler.
// Coordinator is required; Info is optional (getInfo then apologises).
type AssistantWebhookHandlerConfig struct {
	Coordinator bookingService
	Info        infoService
	AssistantID string
	Logger      *logging.Logger
	Metrics     *metrics.BookingMetrics
}

// NewAssistantWebhookHandler creates a new AssistantWebhookHandler.
func NewAssistantWebhookHandler(cfg AssistantWebhookHandlerConfig) *AssistantWebhookHandler {
	if cfg.Coordinator == nil {
		panic("handlers: booking coordinator cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &AssistantWebhookHandler{
		coordinator: cfg.Coordinator,
		info:        cfg.Info,
		assistantID: cfg.AssistantID,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// HandleToolCall is the HTTP handler for POST /webhooks/assistant/tools.
func (h *AssistantWebhookHandler) HandleToolCall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	started := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.logger.Error("assistant webhook: failed to read body", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var event ToolEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("assistant webhook: failed to parse event", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	h.logger.Info("assistant webhook: received tool call",
		"tool_name", event.ToolName,
		"assistant_id", event.AssistantID,
		"conversation_id", event.ConversationID,
	)

	// Reject events from assistants we did not configure. This keeps
	// strangers from booking into the clinic calendar.
	if h.assistantID != "" && event.AssistantID != h.assistantID {
		h.logger.Warn("assistant webhook: assistant ID mismatch",
			"expected", h.assistantID, "got", event.AssistantID)
		h.writeError(w, event.ToolCallID, "unauthorized", http.StatusForbidden)
		return
	}

	convID := event.ConversationID
	if convID == "" {
		// Without a conversation ID the session cannot span turns, but a
		// one-off question can still be answered.
		convID = fmt.Sprintf("anonymous:%s", uuid.NewString())
	}

	text := h.dispatch(ctx, convID, event)
	h.metrics.ObserveToolLatency(event.ToolName, time.Since(started).Seconds())
	h.writeResponse(w, event.ToolCallID, text)
}

// dispatch runs one tool and always returns speakable text. Recoverable
// failures come back as spoken apologies rather than HTTP errors: the
// caller is on the phone, not reading status codes.
func (h *AssistantWebhookHandler) dispatch(ctx context.Context, convID string, event ToolEvent) string {
	switch event.ToolName {
	case "checkAvailability":
		var args checkAvailabilityArgs
		if err := json.Unmarshal(event.Arguments, &args); err != nil || strings.TrimSpace(args.Date) == "" {
			h.logger.Warn("assistant webhook: bad checkAvailability arguments", "error", err)
			return "Je suis désolée, je n'ai pas compris la demande. Pour quelle date souhaitez-vous un rendez-vous ?"
		}
		msg, err := h.coordinator.CheckAvailability(ctx, convID, args.Date, args.ServiceType)
		if err != nil && !errors.Is(err, booking.ErrDateParse) {
			h.logger.Error("assistant webhook: checkAvailability failed",
				"error", err, "conversation_id", convID)
		}
		return msg

	case "bookAppointment":
		var args bookAppointmentArgs
		if err := json.Unmarshal(event.Arguments, &args); err != nil || args.Start == 0 || args.End == 0 {
			h.logger.Warn("assistant webhook: bad bookAppointment arguments", "error", err)
			return "Je suis désolée, je n'ai pas compris quel créneau vous souhaitez. Pouvez-vous répéter ?"
		}
		msg, err := h.coordinator.Book(ctx, convID, args.Start, args.End, args.PatientInfo)
		if err != nil {
			h.logger.Warn("assistant webhook: bookAppointment failed",
				"error", err, "conversation_id", convID)
		}
		return msg

	case "getInfo":
		var args getInfoArgs
		if err := json.Unmarshal(event.Arguments, &args); err != nil || strings.TrimSpace(args.Question) == "" {
			h.logger.Warn("assistant webhook: bad getInfo arguments", "error", err)
			return "Je suis désolée, je n'ai pas compris votre question. Pouvez-vous reformuler ?"
		}
		if h.info == nil {
			return "Je suis désolée, je n'ai pas accès aux informations en ce moment."
		}
		return h.info.Answer(ctx, args.Question)

	default:
		h.logger.Warn("assistant webhook: unknown tool", "tool_name", event.ToolName)
		return "Je suis désolée, je ne peux pas vous aider avec cette demande."
	}
}

func (h *AssistantWebhookHandler) writeResponse(w http.ResponseWriter, toolCallID, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ToolResponse{ToolCallID: toolCallID, Response: text}); err != nil {
		h.logger.Error("assistant webhook: failed to write response", "error", err)
	}
}

func (h *AssistantWebhookHandler) writeError(w http.ResponseWriter, toolCallID, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ToolErrorResponse{ToolCallID: toolCallID, Error: msg}); err != nil {
		h.logger.Error("assistant webhook: failed to write error response", "error", err)
	}
}
