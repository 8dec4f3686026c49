package controller

import (
	"errors"
	"strconv"

	"elearn_backend/internal/model"
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Service *service.ContentService
}

func NewContentController(svc *service.ContentService) *ContentController {
	return &ContentController{Service: svc}
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// @Summary Create a lesson
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LessonReq true "lesson"
// @Success 201 {object} util.Response
// @Router /teacher/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Service.CreateLesson(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary Update a lesson
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Param body body service.LessonReq true "lesson"
// @Success 200 {object} util.Response
// @Router /teacher/lessons/{id} [put]
func (c *ContentController) UpdateLesson(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Service.UpdateLesson(id, req)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary Delete a lesson and its activities
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Router /teacher/lessons/{id} [delete]
func (c *ContentController) DeleteLesson(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteLesson(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary List lessons
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /lessons [get]
func (c *ContentController) ListLessons(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	publishedOnly := !c.isTeacher(ctx)
	lessons, total, err := c.Service.ListLessons(publishedOnly, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": lessons, "total": total})
}

// @Summary Lesson detail with activities
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /lessons/{id} [get]
func (c *ContentController) GetLesson(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	lesson, err := c.Service.GetLesson(id, !c.isTeacher(ctx))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary Create an activity with its questions
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ActivityReq true "activity"
// @Success 201 {object} util.Response
// @Router /teacher/activities [post]
func (c *ContentController) CreateActivity(ctx *gin.Context) {
	var req service.ActivityReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.Service.CreateActivity(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, activity)
}

// @Summary Update an activity
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity id"
// @Param body body service.ActivityReq true "activity"
// @Success 200 {object} util.Response
// @Router /teacher/activities/{id} [put]
func (c *ContentController) UpdateActivity(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.ActivityReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	activity, err := c.Service.UpdateActivity(id, req)
	if err != nil {
		if errors.Is(err, util.ErrActivityNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, activity)
}

// @Summary Delete an activity and its questions
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Router /teacher/activities/{id} [delete]
func (c *ContentController) DeleteActivity(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteActivity(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Activity detail with answer keys
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /teacher/activities/{id} [get]
func (c *ContentController) GetActivity(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	activity, err := c.Service.GetActivity(id)
	if err != nil {
		if errors.Is(err, util.ErrActivityNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, activity)
}

// @Summary Activity view for students
// @Description Published activities only. Answer keys and feedback texts are
// @Description stripped from the payload.
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /activities/{id} [get]
func (c *ContentController) GetActivityForStudent(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.Service.GetActivityForStudent(id)
	if err != nil {
		if errors.Is(err, util.ErrActivityNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Add a question to an activity
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "activity id"
// @Param body body service.QuestionReq true "question"
// @Success 201 {object} util.Response
// @Router /teacher/activities/{id}/questions [post]
func (c *ContentController) AddQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.AddQuestion(id, req)
	if err != nil {
		if errors.Is(err, util.ErrActivityNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary Update a question
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "question id"
// @Param body body service.QuestionReq true "question"
// @Success 200 {object} util.Response
// @Router /teacher/questions/{id} [put]
func (c *ContentController) UpdateQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.UpdateQuestion(id, req)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary Delete a question
// @Tags content
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "question id"
// @Success 200 {object} util.Response
// @Router /teacher/questions/{id} [delete]
func (c *ContentController) DeleteQuestion(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.DeleteQuestion(id); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *ContentController) isTeacher(ctx *gin.Context) bool {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		return false
	}
	return user.Role == model.Teacher || user.Role == model.Admin
}
