package server

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moin143264/UrlChatbotBackend/internal/answer"
	"github.com/moin143264/UrlChatbotBackend/internal/auth"
	"github.com/moin143264/UrlChatbotBackend/internal/store"
)

// storedTextLimit caps question and answer lengths in chat history.
const storedTextLimit = 500

// AnswerPipeline produces a grounded reply for a question.
type AnswerPipeline interface {
	Answer(ctx context.Context, question string) (answer.Reply, error)
}

// ChatStore persists and lists chat history.
type ChatStore interface {
	InsertChatMessage(ctx context.Context, m store.ChatMessage) (int64, error)
	RecentChatMessages(ctx context.Context, userID int64, limit int) ([]store.ChatMessage, error)
}

type ChatHandler struct {
	Pipeline AnswerPipeline
	History  ChatStore
	Logger   *log.Logger
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Question) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}

	reply, err := h.Pipeline.Answer(c.Request().Context(), req.Question)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	chatQuestionsTotal.Inc()

	if userID, ok := auth.UserID(c); ok {
		msg := store.ChatMessage{
			UserID:   userID,
			Question: clip(req.Question, storedTextLimit),
			Answer:   clip(reply.Answer, storedTextLimit),
			Sources:  strings.Join(reply.Sources, ","),
		}
		if _, err := h.History.InsertChatMessage(c.Request().Context(), msg); err != nil {
			// History is best effort; the user still gets the answer.
			h.Logger.Printf("[CHAT] store history for user %d: %v", userID, err)
		}
	}
	return c.JSON(http.StatusOK, reply)
}

func (h *ChatHandler) history(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	messages, err := h.History.RecentChatMessages(c.Request().Context(), userID, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	out := make([]ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		var sources []string
		if m.Sources != "" {
			sources = strings.Split(m.Sources, ",")
		} else {
			sources = []string{}
		}
		out = append(out, ChatMessageResponse{
			ID:        m.ID,
			Question:  m.Question,
			Answer:    m.Answer,
			Sources:   sources,
			CreatedAt: m.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
