package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/chat"
	"github.com/maisonbelle/salon-site/internal/infrastructure/metrics"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/requests"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// ChatHandler serves the chatbot widget and the transcript viewer.
type ChatHandler struct {
	service *chat.Service
	log     zerolog.Logger
}

func NewChatHandler(service *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("component", "chat-handler").Logger(),
	}
}

// SendMessageRequest is one visitor line. An empty or unknown session_id starts
// a new conversation.
type SendMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// GreetingResponse carries the widget greeting.
type GreetingResponse struct {
	Greeting string `json:"greeting"`
}

// Send godoc
// @Summary      Send a message to the chatbot
// @Description  Matches the message against the knowledge base and stores both lines in the session transcript.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request  body      SendMessageRequest  true  "Visitor message"
// @Success      200      {object}  chat.Reply
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      429      {object}  responses.ErrorResponse
// @Router       /v1/chat/messages [post]
func (h *ChatHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "message is required", "0d9b4e26-8c71-4f35-a2e0-b6f3d1c8a947")
		return
	}

	reply, err := h.service.Send(c.Request.Context(), chat.SendInput{
		SessionID: req.SessionID,
		Text:      req.Message,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		responses.HandleError(c, err, "failed to process message")
		return
	}

	metrics.RecordChatTurn(reply.Matched)
	c.JSON(http.StatusOK, reply)
}

// Greeting godoc
// @Summary      Chatbot greeting
// @Tags         chat
// @Produce      json
// @Success      200  {object}  GreetingResponse
// @Router       /v1/chat/greeting [get]
func (h *ChatHandler) Greeting(c *gin.Context) {
	c.JSON(http.StatusOK, GreetingResponse{Greeting: h.service.Greeting()})
}

// ListSessions godoc
// @Summary      List chat sessions
// @Tags         admin-chat
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Success      200  {object}  responses.ListResponse[chat.Session]
// @Security     BearerAuth
// @Router       /v1/admin/chat/sessions [get]
func (h *ChatHandler) ListSessions(c *gin.Context) {
	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "invalid pagination")
		return
	}
	sessions, total, err := h.service.ListSessions(c.Request.Context(), pagination)
	if err != nil {
		responses.HandleError(c, err, "failed to list chat sessions")
		return
	}
	c.JSON(http.StatusOK, listOf(sessions, total, pagination))
}

// GetTranscript godoc
// @Summary      Get a chat transcript
// @Tags         admin-chat
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  chat.Transcript
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/admin/chat/sessions/{id} [get]
func (h *ChatHandler) GetTranscript(c *gin.Context) {
	transcript, err := h.service.GetTranscript(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "failed to get transcript")
		return
	}
	c.JSON(http.StatusOK, transcript)
}
