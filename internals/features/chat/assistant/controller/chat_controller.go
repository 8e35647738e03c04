package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"educa_backend/internals/features/chat/assistant/model"
	"educa_backend/internals/features/chat/assistant/service"
	helper "educa_backend/internals/helpers"
)

type ChatController struct {
	Sessions *service.Manager
	// Upper bound for one streamed reply; the stream outlives the request handler.
	Timeout time.Duration
	Log     *zap.Logger
}

func NewChatController(m *service.Manager, timeout time.Duration, log *zap.Logger) *ChatController {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ChatController{Sessions: m, Timeout: timeout, Log: log}
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type sessionResponse struct {
	SessionID   string          `json:"session_id"`
	Available   bool            `json:"available"`
	Messages    []model.Message `json:"messages"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

func (cc *ChatController) render(s *service.Session) sessionResponse {
	msgs := s.Transcript()
	resp := sessionResponse{SessionID: s.ID, Available: cc.Sessions.Available(), Messages: msgs}
	if len(msgs) == 1 {
		resp.Suggestions = model.Suggestions
	}
	return resp
}

func (cc *ChatController) session(c *fiber.Ctx) (*service.Session, error) {
	s, err := cc.Sessions.Get(c.Params("id"))
	if errors.Is(err, service.ErrSessionNotFound) {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "Sessão de chat não encontrada")
	}
	return s, err
}

// POST /api/chat/sessions
func (cc *ChatController) CreateSession(c *fiber.Ctx) error {
	return helper.JsonCreated(c, "Sessão criada", cc.render(cc.Sessions.Create()))
}

// GET /api/chat/sessions/:id
func (cc *ChatController) GetSession(c *fiber.Ctx) error {
	s, err := cc.session(c)
	if s == nil {
		return err
	}
	return helper.JsonOK(c, "ok", cc.render(s))
}

// POST /api/chat/sessions/:id/reset
func (cc *ChatController) ResetSession(c *fiber.Ctx) error {
	s, err := cc.session(c)
	if s == nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cc.Timeout)
	defer cancel()
	s.Reset(ctx)
	return helper.JsonOK(c, "Conversa reiniciada", cc.render(s))
}

// DELETE /api/chat/sessions/:id
func (cc *ChatController) DeleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	cc.Sessions.Delete(id)
	return helper.JsonDeleted(c, "Sessão encerrada", fiber.Map{"session_id": id})
}

// POST /api/chat/sessions/:id/messages  (?stream=false for a plain JSON reply)
func (cc *ChatController) SendMessage(c *fiber.Ctx) error {
	s, err := cc.session(c)
	if s == nil {
		return err
	}
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if ok, err := helper.ValidateStruct(c, &req); !ok {
		return err
	}

	stream := true
	if raw := c.Query("stream"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			stream = v
		}
	}

	if !stream {
		ctx, cancel := context.WithTimeout(context.Background(), cc.Timeout)
		defer cancel()
		reply, err := s.Send(ctx, req.Message, nil)
		if errors.Is(err, service.ErrEmptyMessage) {
			return helper.JsonValidationError(c, map[string][]string{"message": {"is required"}})
		}
		return helper.JsonOK(c, "ok", fiber.Map{"reply": reply, "messages": s.Transcript()})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	message := req.Message
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		// Not tied to the request: a dropped client stops receiving, the transcript keeps filling.
		ctx, cancel := context.WithTimeout(context.Background(), cc.Timeout)
		defer cancel()

		broken := false
		write := func(event string, v any) {
			if broken {
				return
			}
			if err := writeEvent(w, event, v); err != nil {
				broken = true
				cc.Log.Debug("chat client went away", zap.String("session", s.ID), zap.Error(err))
			}
		}

		reply, err := s.Send(ctx, message, func(fragment string) {
			write("fragment", fiber.Map{"text": fragment})
		})
		if err != nil {
			write("error", fiber.Map{"message": err.Error()})
			return
		}
		write("done", reply)
	})
	return nil
}

func writeEvent(w *bufio.Writer, event string, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
