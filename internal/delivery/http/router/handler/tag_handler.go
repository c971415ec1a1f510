package handler

import (
	"log/slog"
	"net/http"

	"triplan/internal/delivery/http/middleware"
	"triplan/internal/delivery/http/response"
	"triplan/internal/domain/entity"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TagHandler holds dependencies for tag-related handlers.
type TagHandler struct {
	uc     usecase.TagUsecase
	logger *slog.Logger
}

// NewTagHandler is the constructor for TagHandler, injected by Fx.
func NewTagHandler(uc usecase.TagUsecase, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		uc:     uc,
		logger: logger,
	}
}

// Create handles the tag creation request.
func (h *TagHandler) Create(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var input usecase.CreateTagInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid tag input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	tag, err := h.uc.CreateTag(c.Request().Context(), identity.UserID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, tag, "Tag created successfully")
}

// List returns every tag owned by the authenticated user.
func (h *TagHandler) List(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	tags, err := h.uc.ListTags(c.Request().Context(), identity.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tags, "")
}

// Update handles the tag update request.
func (h *TagHandler) Update(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	tagID, err := parseTagID(c)
	if err != nil {
		return err
	}

	var input usecase.UpdateTagInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid tag input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	tag, err := h.uc.UpdateTag(c.Request().Context(), identity.UserID, tagID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tag, "Tag updated successfully")
}

// Delete handles the tag deletion request.
func (h *TagHandler) Delete(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	tagID, err := parseTagID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteTag(c.Request().Context(), identity.UserID, tagID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Tag deleted successfully")
}

// requireIdentity returns the identity set by the auth middleware.
func requireIdentity(c echo.Context) (*entity.Identity, error) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return nil, errors.Wrap(domainerrors.ErrUnauthenticated, "identity missing from context")
	}

	return identity, nil
}

func parseTagID(c echo.Context) (uuid.UUID, error) {
	tagID, err := uuid.Parse(c.Param("tagId"))
	if err != nil {
		return uuid.Nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("tagId must be a UUID"), "invalid tag id")
	}

	return tagID, nil
}
