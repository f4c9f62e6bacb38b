package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poc3/api-backend/internal/models"
	"github.com/poc3/api-backend/internal/services"
)

// MalformedJSONMessage is the 400 message for a POST body that does not parse
const MalformedJSONMessage = "Malformed JSON in request body"

// rootEndpoints is listed by GET /
var rootEndpoints = []string{
	"GET /health - Health check",
	"GET /api/hello - Hello World message",
	"GET /api/hello/:name - Personalized hello message",
	"POST /api/hello - Personalized hello message echoing the request body",
	"GET /api/info - Application information",
	"GET /swagger/index.html - Swagger UI documentation",
}

// infoEndpoints is listed by GET /api/info
var infoEndpoints = []models.EndpointInfo{
	{Path: "/health", Method: http.MethodGet, Description: "Health check endpoint"},
	{Path: "/api/hello", Method: http.MethodGet, Description: "Hello world message"},
	{Path: "/api/hello/{name}", Method: http.MethodGet, Description: "Personalized hello message"},
	{Path: "/api/hello", Method: http.MethodPost, Description: "Personalized hello message with request echo"},
	{Path: "/api/info", Method: http.MethodGet, Description: "Application information"},
	{Path: "/swagger/index.html", Method: http.MethodGet, Description: "Swagger UI documentation"},
}

// HelloHandler handles the hello service routes
type HelloHandler struct {
	greeting *services.GreetingService
}

// NewHelloHandler creates a new hello handler
func NewHelloHandler(greeting *services.GreetingService) *HelloHandler {
	return &HelloHandler{greeting: greeting}
}

// Health handles GET /health
// @Summary Health check
// @Description Liveness probe. Never depends on external resources.
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthStatus
// @Router /health [get]
func (h *HelloHandler) Health(c *gin.Context) {
	HealthHandler(h.greeting)(c)
}

// Root handles GET /
// @Summary Service information
// @Description Service name, version and the list of available endpoints
// @Tags info
// @Produce json
// @Success 200 {object} models.ServiceInfo
// @Router / [get]
func (h *HelloHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, h.greeting.ServiceInfo(rootEndpoints))
}

// Info handles GET /api/info
// @Summary Application information
// @Description Structured description of the application, its stack and routes
// @Tags info
// @Produce json
// @Success 200 {object} models.AppInfo
// @Router /api/info [get]
func (h *HelloHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.greeting.AppInfo(infoEndpoints))
}

// HelloQuery handles GET /api/hello
// @Summary Hello world
// @Description Greets the optional name query parameter, or World when it is absent or blank
// @Tags hello
// @Produce json
// @Param name query string false "Name to greet"
// @Success 200 {object} models.HelloResponse
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /api/hello [get]
func (h *HelloHandler) HelloQuery(c *gin.Context) {
	c.JSON(http.StatusOK, h.greeting.Hello(c.Query("name")))
}

// HelloPath handles GET /api/hello/:name
// @Summary Personalized hello
// @Description Greets the name path segment. A blank segment greets World.
// @Tags hello
// @Produce json
// @Param name path string true "Name to greet"
// @Success 200 {object} models.HelloResponse
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /api/hello/{name} [get]
func (h *HelloHandler) HelloPath(c *gin.Context) {
	c.JSON(http.StatusOK, h.greeting.Hello(c.Param("name")))
}

// HelloPost handles POST /api/hello
// @Summary Personalized hello with echo
// @Description Greets body.name and echoes any JSON body back under "received". An empty body counts as {}.
// @Tags hello
// @Accept json
// @Produce json
// @Param request body models.HelloRequest false "Greeting request"
// @Success 200 {object} models.HelloResponse
// @Failure 400 {object} models.ErrorResponse "Malformed JSON"
// @Failure 413 {string} string "Request body too large"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /api/hello [post]
func (h *HelloHandler) HelloPost(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		// The size limiter has already answered with 413
		if c.IsAborted() {
			return
		}
		_ = c.Error(err)
		return
	}

	resp, err := h.greeting.Echo(body)
	if err != nil {
		if errors.Is(err, services.ErrInvalidBody) {
			// The decoder detail is logged by ErrorReporter, never returned
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Bad Request",
				Message: MalformedJSONMessage,
			})
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// NotFound answers every unmatched route
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "Not Found",
		Message: "The requested resource was not found",
		Path:    c.Request.URL.Path,
	})
}
