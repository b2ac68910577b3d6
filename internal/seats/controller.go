package seats

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skybook/internal/flights"
	"skybook/internal/shared/utils/response"
)

type Controller interface {
	GetSeatMap(c *gin.Context)
	GetAdminSeatMap(c *gin.Context)
	GenerateSeats(c *gin.Context)
	UpdateSeatStatus(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetSeatMap(c *gin.Context) {
	seatMap, err := ctrl.service.GetSeatMap(c.Request.Context(), c.Param("flightId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrLayoutMissing) || errors.Is(err, flights.ErrFlightNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

func (ctrl *controller) GetAdminSeatMap(c *gin.Context) {
	seatMap, err := ctrl.service.GetAdminSeatMap(c.Request.Context(), c.Param("flightId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrLayoutMissing) || errors.Is(err, flights.ErrFlightNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

func (ctrl *controller) GenerateSeats(c *gin.Context) {
	layout, err := ctrl.service.GenerateSeatsForAircraft(c.Request.Context(), c.Param("aircraftId"))
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrLayoutExists) {
			statusCode = http.StatusConflict
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seat layout generated successfully", gin.H{
		"seats_created": len(layout),
	}, nil)
}

type updateSeatStatusRequest struct {
	Blocked bool `json:"blocked"`
}

func (ctrl *controller) UpdateSeatStatus(c *gin.Context) {
	var req updateSeatStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	err := ctrl.service.SetSeatBlocked(c.Request.Context(), c.Param("aircraftId"), c.Param("seatNumber"), req.Blocked)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrSeatNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat status updated successfully", nil, nil)
}
