package handler

import (
	"errors"
	"strings"

	"chat-sync-app/dto/res"
	"chat-sync-app/repository"
	"chat-sync-app/security"
	"chat-sync-app/storage"
	"chat-sync-app/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SessionKey is the fiber.Ctx local holding the caller's *security.Session.
const SessionKey = "session"

func sessionFrom(ctx *fiber.Ctx) *security.Session {
	session, _ := ctx.Locals(SessionKey).(*security.Session)
	return session
}

// imageFrom reads the optional image part of a multipart request. The
// returned function closes the opened file.
func imageFrom(ctx *fiber.Ctx, field string) (*storage.Image, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, noop, nil
	}
	header, err := ctx.FormFile(field)
	if err != nil {
		return nil, noop, nil
	}
	contentType := header.Header.Get(fiber.HeaderContentType)
	if err := storage.CheckImage(contentType, header.Size); err != nil {
		return nil, noop, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return &storage.Image{ContentType: contentType, Size: header.Size, Body: file}, func() { _ = file.Close() }, nil
}

// StatusCode maps an error returned by the usecases to an HTTP status.
func StatusCode(err error) int {
	var fiberErr *fiber.Error
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, usecase.ErrNotAuthenticated),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, security.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.As(err, &validationErrors),
		errors.Is(err, usecase.ErrSelfRelation),
		errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrTooLarge):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error returned by a handler as res.ErrorResponse.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := StatusCode(err)
		message := err.Error()
		if code == fiber.StatusInternalServerError {
			log.WithError(err).Errorf("%s %s failed", ctx.Method(), ctx.Path())
			message = "internal server error"
		}
		return ctx.Status(code).JSON(res.NewErrorResponse(code, message))
	}
}
