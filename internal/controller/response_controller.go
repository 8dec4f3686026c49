package controller

import (
	"errors"
	"strconv"

	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResponseController struct {
	Service *service.ResponseService
}

func NewResponseController(svc *service.ResponseService) *ResponseController {
	return &ResponseController{Service: svc}
}

// @Summary List my responses
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Param activity_id query int false "filter by activity"
// @Param lesson_id query int false "filter by parent lesson"
// @Success 200 {object} util.Response
// @Router /responses [get]
func (c *ResponseController) ListMyResponses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	activityID, _ := strconv.ParseUint(ctx.DefaultQuery("activity_id", "0"), 10, 64)
	lessonID, _ := strconv.ParseUint(ctx.DefaultQuery("lesson_id", "0"), 10, 64)

	responses, err := c.Service.ListResponses(user.UserID, service.ResponseFilters{
		ActivityID: uint(activityID),
		LessonID:   uint(lessonID),
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, responses)
}

// @Summary Response detail
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "response id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /responses/{id} [get]
func (c *ResponseController) GetResponseDetail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid response id")
		return
	}

	response, err := c.Service.GetResponseDetail(user.UserID, uint(id))
	if err != nil {
		if errors.Is(err, util.ErrResponseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, response)
}

// @Summary List all responses for an activity
// @Tags submissions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity id"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /teacher/activities/{id}/responses [get]
func (c *ResponseController) ListActivityResponses(ctx *gin.Context) {
	activityID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	responses, total, err := c.Service.ListActivityResponses(uint(activityID), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": responses, "total": total})
}
