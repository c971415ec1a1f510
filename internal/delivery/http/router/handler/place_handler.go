package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"triplan/internal/delivery/http/response"
	domainerrors "triplan/internal/domain/errors"
	"triplan/internal/domain/service"
	"triplan/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// PlaceHandler holds dependencies for place-related handlers.
type PlaceHandler struct {
	uc       usecase.PlaceUsecase
	qrcodeUc service.QRCodeService
	logger   *slog.Logger
}

// NewPlaceHandler is the constructor for PlaceHandler, injected by Fx.
func NewPlaceHandler(uc usecase.PlaceUsecase, qrcodeUc service.QRCodeService, logger *slog.Logger) *PlaceHandler {
	return &PlaceHandler{
		uc:       uc,
		qrcodeUc: qrcodeUc,
		logger:   logger,
	}
}

// Create handles the place save request.
func (h *PlaceHandler) Create(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var input usecase.CreatePlaceInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid place input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	place, err := h.uc.CreatePlace(c.Request().Context(), identity.UserID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, place, "Place saved successfully")
}

// List returns the user's places, optionally filtered by tag and sorted by
// distance from a coordinate.
func (h *PlaceHandler) List(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	input, err := parseListInput(c)
	if err != nil {
		return err
	}

	places, err := h.uc.ListPlaces(c.Request().Context(), identity.UserID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, places, "")
}

// Get returns one place by its map-provider id.
func (h *PlaceHandler) Get(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	place, err := h.uc.GetPlace(c.Request().Context(), identity.UserID, c.Param("placeId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, place, "")
}

// Delete handles the place removal request.
func (h *PlaceHandler) Delete(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeletePlace(c.Request().Context(), identity.UserID, c.Param("placeId")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Place deleted successfully")
}

// AddTag attaches a tag to a place.
func (h *PlaceHandler) AddTag(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	tagID, err := parseTagID(c)
	if err != nil {
		return err
	}

	if err := h.uc.AddTagToPlace(c.Request().Context(), identity.UserID, c.Param("placeId"), tagID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Tag added to place")
}

// RemoveTag detaches a tag from a place.
func (h *PlaceHandler) RemoveTag(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	tagID, err := parseTagID(c)
	if err != nil {
		return err
	}

	if err := h.uc.RemoveTagFromPlace(c.Request().Context(), identity.UserID, c.Param("placeId"), tagID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Tag removed from place")
}

// ShareQR returns a QR code PNG encoding the place's location, for handing
// a saved place to another device.
func (h *PlaceHandler) ShareQR(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	place, err := h.uc.GetPlace(c.Request().Context(), identity.UserID, c.Param("placeId"))
	if err != nil {
		return errors.WithStack(err)
	}

	png, err := h.qrcodeUc.GeneratePlaceQR(place.ExternalID, place.Latitude, place.Longitude)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// parseListInput reads the optional tagId filter and lat/lng sort origin
// from the query string.
func parseListInput(c echo.Context) (*usecase.ListPlacesInput, error) {
	input := &usecase.ListPlacesInput{}

	if raw := c.QueryParam("tagId"); raw != "" {
		tagID, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("tagId must be a UUID"), "invalid tag filter")
		}
		input.TagID = &tagID
	}

	latRaw, lngRaw := c.QueryParam("lat"), c.QueryParam("lng")
	if latRaw != "" || lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("lat and lng must form a valid coordinate"), "invalid sort origin")
		}
		point := orb.Point{lng, lat}
		input.Near = &point
	}

	return input, nil
}
