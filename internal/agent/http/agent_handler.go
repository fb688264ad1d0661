// Package http provides HTTP handlers for guarded agent connections.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asthalabs/shopperai/internal/agent/http/dto"
	agentService "github.com/asthalabs/shopperai/internal/agent/service"
	apperrors "github.com/asthalabs/shopperai/internal/errors"
	"github.com/asthalabs/shopperai/internal/httputil"
)

// AgentHandler handles HTTP requests for guarded agent connections.
type AgentHandler struct {
	channels map[string]*agentService.Channel
	logger   *slog.Logger
}

// NewAgentHandler creates an agent handler serving the given guarded channels,
// keyed by agent ID.
func NewAgentHandler(
	channels []*agentService.Channel,
	logger *slog.Logger,
) *AgentHandler {
	byID := make(map[string]*agentService.Channel, len(channels))
	for _, channel := range channels {
		byID[channel.AgentID()] = channel
	}
	return &AgentHandler{
		channels: byID,
		logger:   logger,
	}
}

// ConnectHandler runs a guarded connection against the target agent.
// POST /v1/agents/:agent_id/connect
//
// The access check runs before the requested operation; a rejected call
// performs no part of it. Returns 200 OK with the agent's message on success,
// 401 Unauthorized when the caller presented no identity, 403 Forbidden when
// the target's policy denies the call, 404 Not Found for an unknown agent or
// unsupported action.
func (h *AgentHandler) ConnectHandler(c *gin.Context) {
	channel, ok := h.channels[c.Param("agent_id")]
	if !ok {
		httputil.HandleErrorGin(c,
			apperrors.Wrapf(apperrors.ErrNotFound, "unknown agent %q", c.Param("agent_id")),
			h.logger)
		return
	}

	var request dto.ConnectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	message, err := channel.Connect(c.Request.Context(), request.Identity(), request.Action, request.Payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMessageToResponse(message))
}
