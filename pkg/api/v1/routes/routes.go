// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/restbridge/restbridge/pkg/api/v1/handlers"
)

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// RESTPrefix is the prefix for all REST endpoints
	RESTPrefix = "/rest"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Auth route
	Authenticate = "Authenticate"

	// Model routes
	BrowseRecords = "BrowseRecords"
	ReadRecord    = "ReadRecord"
	AddRecord     = "AddRecord"
	EditRecord    = "EditRecord"
	DeleteRecord  = "DeleteRecord"
)

// routeCache stores extracted routes for use prior to compilation
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes configures all routes. Every model route sits behind
// guard; the auth endpoint and the health check do not.
//
// NOTE: route ordering matters because fiber matches in registration
// order: /auth must be registered before /models/:model or a POST to
// /rest/auth would bind :model to "auth".
func RegisterRoutes(
	app *fiber.App,
	guard fiber.Handler,
	authHandler *handlers.AuthHandler,
	modelHandler *handlers.ModelHandler,
) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	rest := app.Group(RESTPrefix)

	// Auth endpoint
	rest.Post("/auth", authHandler.Authenticate).Name(Authenticate)

	// Model endpoints
	models := rest.Group("/models", guard)
	models.Get("/:model", modelHandler.Browse).Name(BrowseRecords)
	models.Get("/:model/:id", modelHandler.Read).Name(ReadRecord)
	models.Post("/:model", modelHandler.Add).Name(AddRecord)
	models.Patch("/:model/:id", modelHandler.Edit).Name(EditRecord)
	models.Delete("/:model/:id", modelHandler.Delete).Name(DeleteRecord)
}

// initRouteCache initializes the route cache by creating a mock app and
// extracting routes
func initRouteCache() {
	routeCacheInit.Do(func() {
		routeCache = make(map[string]string)

		// Create a mock app with empty handlers; registration only reads
		// the route table, the handlers never run.
		app := fiber.New()
		passthrough := func(c *fiber.Ctx) error { return c.Next() }
		RegisterRoutes(app, passthrough, &handlers.AuthHandler{}, &handlers.ModelHandler{})

		for _, route := range app.GetRoutes() {
			if route.Name != "" {
				routeCache[route.Name] = route.Path
			}
		}
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()

	// Initialize cache if needed
	if routeCache == nil {
		routeCacheMu.RUnlock()
		initRouteCache()
		routeCacheMu.RLock()
	}

	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	// Replace parameters in the route
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, value)
	}

	// Remove trailing slash if it's a base endpoint with no parameters
	if strings.HasSuffix(route, "/") && !strings.Contains(route, ":") {
		route = strings.TrimSuffix(route, "/")
	}

	// Add query parameters if any
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

// Health check route helper

// HealthCheckURL returns the URL for the health check endpoint
func HealthCheckURL() string {
	return BuildURL(HealthCheck, nil, nil)
}

// Auth route helper

// AuthenticateURL returns the URL for the auth endpoint
func AuthenticateURL() string {
	return BuildURL(Authenticate, nil, nil)
}

// Model route helpers

// BrowseRecordsURL returns the URL for browsing records of a model
func BrowseRecordsURL(model string, queryParams url.Values) string {
	return BuildURL(BrowseRecords, map[string]string{"model": model}, queryParams)
}

// ReadRecordURL returns the URL for reading one record
func ReadRecordURL(model string, id int64, queryParams url.Values) string {
	return BuildURL(ReadRecord, map[string]string{
		"model": model,
		"id":    strconv.FormatInt(id, 10),
	}, queryParams)
}

// AddRecordURL returns the URL for creating a record
func AddRecordURL(model string) string {
	return BuildURL(AddRecord, map[string]string{"model": model}, nil)
}

// EditRecordURL returns the URL for updating one record
func EditRecordURL(model string, id int64) string {
	return BuildURL(EditRecord, map[string]string{
		"model": model,
		"id":    strconv.FormatInt(id, 10),
	}, nil)
}

// DeleteRecordURL returns the URL for deleting one record
func DeleteRecordURL(model string, id int64) string {
	return BuildURL(DeleteRecord, map[string]string{
		"model": model,
		"id":    strconv.FormatInt(id, 10),
	}, nil)
}
