package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asthalabs/shopperai/internal/agent/http/dto"
	"github.com/asthalabs/shopperai/internal/httputil"
	iamDomain "github.com/asthalabs/shopperai/internal/iam/domain"
	iamUseCase "github.com/asthalabs/shopperai/internal/iam/usecase"
)

// AccessHandler handles HTTP requests for dry-run access evaluations.
type AccessHandler struct {
	access iamUseCase.AccessUseCase
	logger *slog.Logger
}

// NewAccessHandler creates an access handler with required dependencies.
func NewAccessHandler(
	access iamUseCase.AccessUseCase,
	logger *slog.Logger,
) *AccessHandler {
	return &AccessHandler{
		access: access,
		logger: logger,
	}
}

// EvaluateHandler previews the access decision for a request without running
// any operation. POST /v1/access/evaluate
//
// Denials are regular responses here, not HTTP errors: the caller asked what
// the decision would be and gets it, 200 OK either way. Operator faults still
// surface as errors so a broken policy cannot hide behind a plausible-looking
// denial: 404 when no policy is attached to the target, 500 when the attached
// policy is malformed.
func (h *AccessHandler) EvaluateHandler(c *gin.Context) {
	var request dto.EvaluateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	accessRequest := &iamDomain.AccessRequest{
		CallerIdentity: request.Identity(),
		Action:         request.Action,
		Context:        request.Context,
	}

	decision, err := h.access.Evaluate(c.Request.Context(), request.TargetAgentID, accessRequest)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecisionToResponse(decision))
}
