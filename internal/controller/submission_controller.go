package controller

import (
	"errors"
	"strconv"

	"elearn_backend/internal/service"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	Service *service.SubmissionService
}

func NewSubmissionController(svc *service.SubmissionService) *SubmissionController {
	return &SubmissionController{Service: svc}
}

// @Summary Submit answers for an activity
// @Description Accepts a partial (autosave) or complete submission. The
// @Description response row per (user, activity) is created on first use and
// @Description mutated afterwards; question answers are overwritten, never
// @Description appended. Activity-level feedback is returned once and not
// @Description persisted.
// @Tags submissions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity id"
// @Param body body service.SubmitRequest true "answers"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /activities/{id}/submit [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	activityID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid activity id")
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(user.UserID, uint(activityID), req)
	if err != nil {
		var ve *util.ValidationError
		switch {
		case errors.As(err, &ve):
			util.BadRequest(ctx, ve.Error())
		case errors.Is(err, util.ErrActivityNotFound), errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	kind := "partial"
	if result.Response.IsComplete {
		kind = "complete"
	}
	monitoring.SubmissionCounter.WithLabelValues(kind).Inc()

	util.Success(ctx, result)
}
