package util

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrActivityNotFound   = errors.New("activity not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrResponseNotFound   = errors.New("response not found")
)

// ValidationError reports a structural problem with a submission payload.
// All failing required questions are collected into one error so the client
// can correct the whole batch at once.
type ValidationError struct {
	Message               string
	MissingQuestionOrders []int
}

func (e *ValidationError) Error() string {
	if len(e.MissingQuestionOrders) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.MissingQuestionOrders))
	for i, o := range e.MissingQuestionOrders {
		parts[i] = strconv.Itoa(o)
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, ", "))
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NewMissingRequiredError(orders []int) *ValidationError {
	sort.Ints(orders)
	return &ValidationError{
		Message:               "required questions not answered",
		MissingQuestionOrders: orders,
	}
}
