package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laundry/internal/domain"
	"laundry/internal/service"
)

// ActorHandler handles HTTP requests for actors and rider locations.
type ActorHandler struct {
	directory *service.ActorDirectory
}

// NewActorHandler creates a new ActorHandler.
func NewActorHandler(directory *service.ActorDirectory) *ActorHandler {
	return &ActorHandler{directory: directory}
}

// RegisterActorRequest is the HTTP request body for registering an actor.
type RegisterActorRequest struct {
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Roles    []string        `json:"roles"`
	Location *CoordinateBody `json:"location,omitempty"`
}

// UpdateLocationRequest is the HTTP request body for a location update.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ActorView is the HTTP representation of an actor.
type ActorView struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Roles    []string        `json:"roles"`
	Location *CoordinateBody `json:"location,omitempty"`
}

func toActorView(a *domain.Actor) ActorView {
	view := ActorView{
		ID:    a.ID,
		Name:  a.Name,
		Phone: a.Phone,
		Roles: a.Roles,
	}
	if a.Location != nil {
		view.Location = &CoordinateBody{Lat: a.Location.Lat, Lng: a.Location.Lng}
	}
	return view
}

// Register handles POST /v1/actors/register
func (h *ActorHandler) Register(c *gin.Context) {
	var req RegisterActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	actor, err := h.directory.Register(c.Request.Context(), service.RegisterActorRequest{
		Name:     req.Name,
		Phone:    req.Phone,
		Roles:    req.Roles,
		Location: toCoordinate(req.Location),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, "actor registered", toActorView(actor))
}

// Get handles GET /v1/actors/:id
func (h *ActorHandler) Get(c *gin.Context) {
	actor, err := h.directory.GetActor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "actor found", toActorView(actor))
}

// GetAll handles GET /v1/actors
func (h *ActorHandler) GetAll(c *gin.Context) {
	actors, err := h.directory.ListActors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]ActorView, 0, len(actors))
	for _, a := range actors {
		views = append(views, toActorView(a))
	}

	respondData(c, http.StatusOK, "actors listed", views)
}

// UpdateLocation handles POST /v1/riders/:id/location
func (h *ActorHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	err := h.directory.UpdateLocation(c.Request.Context(), c.Param("id"), domain.Coordinate{
		Lat: req.Lat,
		Lng: req.Lng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "location updated", nil)
}

// NearbyRiders handles GET /v1/riders/nearby
func (h *ActorHandler) NearbyRiders(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		respondBadRequest(c, "lat and lng query parameters are required")
		return
	}

	radiusKm := service.DefaultSearchRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			respondBadRequest(c, "invalid radius_km")
			return
		}
		radiusKm = parsed
	}

	riders, err := h.directory.NearbyRiders(c.Request.Context(), domain.Coordinate{Lat: lat, Lng: lng}, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	type riderLocationView struct {
		RiderID string  `json:"rider_id"`
		Lat     float64 `json:"lat"`
		Lng     float64 `json:"lng"`
	}

	views := make([]riderLocationView, 0, len(riders))
	for _, r := range riders {
		views = append(views, riderLocationView{RiderID: r.RiderID, Lat: r.Lat, Lng: r.Lng})
	}

	respondData(c, http.StatusOK, "nearby riders", views)
}
