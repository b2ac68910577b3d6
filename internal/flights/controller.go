package flights

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skybook/internal/shared/utils/response"
)

type Controller interface {
	// Flights
	CreateFlight(c *gin.Context)
	GetFlight(c *gin.Context)
	ListFlights(c *gin.Context)
	ListUpcomingFlights(c *gin.Context)
	UpdateFlight(c *gin.Context)
	DeleteFlight(c *gin.Context)

	// Airports
	CreateAirport(c *gin.Context)
	ListAirports(c *gin.Context)
	UpdateAirport(c *gin.Context)
	DeleteAirport(c *gin.Context)

	// Aircraft
	CreateAircraft(c *gin.Context)
	GetAircraft(c *gin.Context)
	ListAircraft(c *gin.Context)
	DeleteAircraft(c *gin.Context)

	// Pricing
	CreatePricingRule(c *gin.Context)
	ListPricingRules(c *gin.Context)
	UpdatePricingRule(c *gin.Context)
	DeletePricingRule(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateFlight(c *gin.Context) {
	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	flight, err := ctrl.service.CreateFlight(c.Request.Context(), req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrAircraftNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Flight created successfully", flight, nil)
}

func (ctrl *controller) GetFlight(c *gin.Context) {
	flight, pricing, err := ctrl.service.GetFlightWithPricing(c.Request.Context(), c.Param("flightId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrFlightNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight retrieved successfully", gin.H{
		"flight":  flight,
		"pricing": pricing,
	}, nil)
}

func (ctrl *controller) ListFlights(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	flights, err := ctrl.service.ListFlights(c.Request.Context(), page, limit)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flights retrieved successfully", flights, nil)
}

func (ctrl *controller) ListUpcomingFlights(c *gin.Context) {
	flights, err := ctrl.service.ListUpcomingFlights(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Upcoming flights retrieved successfully", flights, nil)
}

func (ctrl *controller) UpdateFlight(c *gin.Context) {
	var req UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	flight, err := ctrl.service.UpdateFlight(c.Request.Context(), c.Param("flightId"), req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrFlightNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight updated successfully", flight, nil)
}

func (ctrl *controller) DeleteFlight(c *gin.Context) {
	if err := ctrl.service.DeleteFlight(c.Request.Context(), c.Param("flightId")); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Flight deleted successfully", nil, nil)
}

func (ctrl *controller) CreateAirport(c *gin.Context) {
	var req CreateAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	airport, err := ctrl.service.CreateAirport(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Airport created successfully", airport, nil)
}

func (ctrl *controller) ListAirports(c *gin.Context) {
	airports, err := ctrl.service.ListAirports(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Airports retrieved successfully", airports, nil)
}

func (ctrl *controller) UpdateAirport(c *gin.Context) {
	var req UpdateAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	airport, err := ctrl.service.UpdateAirport(c.Request.Context(), c.Param("airportId"), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Airport updated successfully", airport, nil)
}

func (ctrl *controller) DeleteAirport(c *gin.Context) {
	if err := ctrl.service.DeleteAirport(c.Request.Context(), c.Param("airportId")); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Airport deleted successfully", nil, nil)
}

func (ctrl *controller) CreateAircraft(c *gin.Context) {
	var req CreateAircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	aircraft, err := ctrl.service.CreateAircraft(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Aircraft created successfully", aircraft, nil)
}

func (ctrl *controller) GetAircraft(c *gin.Context) {
	aircraft, err := ctrl.service.GetAircraft(c.Request.Context(), c.Param("aircraftId"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrAircraftNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Aircraft retrieved successfully", aircraft, nil)
}

func (ctrl *controller) ListAircraft(c *gin.Context) {
	aircraft, err := ctrl.service.ListAircraft(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Aircraft retrieved successfully", aircraft, nil)
}

func (ctrl *controller) DeleteAircraft(c *gin.Context) {
	if err := ctrl.service.DeleteAircraft(c.Request.Context(), c.Param("aircraftId")); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Aircraft deleted successfully", nil, nil)
}

func (ctrl *controller) CreatePricingRule(c *gin.Context) {
	var req CreatePricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	rule, err := ctrl.service.CreatePricingRule(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Pricing rule created successfully", rule, nil)
}

func (ctrl *controller) ListPricingRules(c *gin.Context) {
	rules, err := ctrl.service.ListPricingRules(c.Request.Context(), c.Param("flightId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing rules retrieved successfully", rules, nil)
}

func (ctrl *controller) UpdatePricingRule(c *gin.Context) {
	var req UpdatePricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.service.UpdatePricingRule(c.Request.Context(), c.Param("ruleId"), req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing rule updated successfully", nil, nil)
}

func (ctrl *controller) DeletePricingRule(c *gin.Context) {
	if err := ctrl.service.DeletePricingRule(c.Request.Context(), c.Param("ruleId")); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pricing rule deleted successfully", nil, nil)
}
