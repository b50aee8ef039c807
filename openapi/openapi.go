package openapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

// Document wraps a programmatically built OpenAPI 3 description of the API
// and serves it as JSON or YAML.
type Document struct {
	spec *openapi3.T
}

func New(title, version, serverURL string) *Document {
	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Version:     version,
			Description: "Back-office inventory and sales API with JWT authentication.",
		},
		Servers: openapi3.Servers{
			{URL: serverURL},
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				"bearerAuth": &openapi3.SecuritySchemeRef{
					Value: openapi3.NewJWTSecurityScheme(),
				},
			},
		},
	}

	doc := &Document{spec: spec}
	doc.addAuthPaths()
	doc.addResourcePaths()
	return doc
}

func (d *Document) Spec() *openapi3.T {
	return d.spec
}

func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d.spec, "", "  ")
}

// YAML round-trips through JSON so openapi3's MarshalJSON customizations
// apply before the YAML encoding.
func (d *Document) YAML() ([]byte, error) {
	data, err := d.spec.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var intermediate map[string]any
	if err := json.Unmarshal(data, &intermediate); err != nil {
		return nil, err
	}
	return yaml.Marshal(intermediate)
}

func (d *Document) JSONHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := d.JSON()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to render spec")
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
	}
}

func (d *Document) YAMLHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := d.YAML()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to render spec")
		}
		return c.Blob(http.StatusOK, "application/yaml", data)
	}
}

func (d *Document) addAuthPaths() {
	d.add(http.MethodPost, "/api/auth/register", operation("Register a new user", "auth", false,
		withResponse(http.StatusCreated, "User created, token pair issued"),
		withResponse(http.StatusConflict, "Email already registered")))
	d.add(http.MethodPost, "/api/auth/login", operation("Authenticate and issue a token pair", "auth", false,
		withResponse(http.StatusOK, "Token pair issued"),
		withResponse(http.StatusUnauthorized, "Invalid credentials")))
	d.add(http.MethodPost, "/api/auth/refresh", operation("Rotate the refresh token", "auth", false,
		withResponse(http.StatusOK, "Fresh token pair issued"),
		withResponse(http.StatusUnauthorized, "Refresh token invalid, expired or replayed")))
	d.add(http.MethodPost, "/api/auth/logout", operation("Revoke the current session", "auth", true,
		withResponse(http.StatusNoContent, "Session revoked"),
		withResponse(http.StatusUnauthorized, "Invalid access token")))
}

func (d *Document) addResourcePaths() {
	resources := []struct {
		plural string
		tag    string
	}{
		{"users", "users"},
		{"categories", "catalog"},
		{"articles", "catalog"},
		{"customers", "partners"},
		{"suppliers", "partners"},
		{"sales", "trade"},
		{"purchases", "trade"},
	}

	for _, r := range resources {
		base := "/api/" + r.plural
		if r.plural != "users" {
			d.add(http.MethodPost, base, operation("Create a "+r.tag+" resource", r.tag, true,
				withResponse(http.StatusCreated, "Created")))
		}
		d.add(http.MethodGet, base, operation("List "+r.plural, r.tag, true,
			withResponse(http.StatusOK, "Paginated listing")))
		d.add(http.MethodGet, base+"/{id}", operation("Fetch one of "+r.plural, r.tag, true,
			withResponse(http.StatusOK, "Found"),
			withResponse(http.StatusNotFound, "Not found")))
		if r.plural != "sales" && r.plural != "purchases" {
			d.add(http.MethodPatch, base+"/{id}", operation("Update one of "+r.plural, r.tag, true,
				withResponse(http.StatusOK, "Updated"),
				withResponse(http.StatusNotFound, "Not found")))
		}
	}

	d.add(http.MethodPost, "/api/sales/{id}/payments", operation("Record a sale payment", "trade", true,
		withResponse(http.StatusOK, "Payment recorded")))
	d.add(http.MethodPost, "/api/purchases/{id}/payments", operation("Record a purchase payment", "trade", true,
		withResponse(http.StatusOK, "Payment recorded")))
	d.add(http.MethodGet, "/api/me", operation("Fetch the authenticated user", "users", true,
		withResponse(http.StatusOK, "Found")))
}

type responseSpec struct {
	status      int
	description string
}

func withResponse(status int, description string) responseSpec {
	return responseSpec{status: status, description: description}
}

func operation(summary, tag string, secured bool, responses ...responseSpec) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Summary = summary
	op.Tags = []string{tag}
	op.Responses = openapi3.NewResponses()

	for _, r := range responses {
		op.Responses.Set(strconv.Itoa(r.status), &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(r.description),
		})
	}

	if secured {
		op.Security = openapi3.NewSecurityRequirements().
			With(openapi3.NewSecurityRequirement().Authenticate("bearerAuth"))
	}

	return op
}

func (d *Document) add(method, path string, op *openapi3.Operation) {
	item := d.spec.Paths.Value(path)
	if item == nil {
		item = &openapi3.PathItem{}
		d.spec.Paths.Set(path, item)
	}
	item.SetOperation(method, op)
}
