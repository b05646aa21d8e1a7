package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"clima.app/internal/ports"
	errorspkg "clima.app/pkg/errors"
	"clima.app/pkg/validation"
)

// MountWidgetRequest is the optional body of POST /api/widgets
type MountWidgetRequest struct {
	City string `json:"city" form:"city" binding:"omitempty,catalog_city"`
}

// SelectCityRequest is the body of PUT /api/widgets/:id/city and the city form
type SelectCityRequest struct {
	City string `json:"city" form:"city" binding:"required,catalog_city"`
}

// CitiesResponse lists the catalog in display order
type CitiesResponse struct {
	Cities  []string `json:"cities"`
	Default string   `json:"default"`
}

// registerCatalogValidation installs the catalog_city tag on gin's validator
func registerCatalogValidation(cities []string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return validation.RegisterCatalog(v, cities)
}

// bindingError converts a gin binding failure into a validation error
func bindingError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			switch fe.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
			case validation.CatalogTag:
				messages = append(messages, fmt.Sprintf("city %q is not in the catalog", fe.Value()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
			}
		}
		return errorspkg.NewValidationError(strings.Join(messages, "; "))
	}
	return errorspkg.NewValidationError("invalid request body")
}

func (s *HTTPServerAdapter) widgetView(id string) (WidgetView, error) {
	state, err := s.registry.State(id)
	if err != nil {
		return WidgetView{}, err
	}
	return NewWidgetView(id, state, s.registry.Cities(), s.config.RefreshInterval), nil
}

func widgetPath(id string) string {
	return "/widgets/" + id
}

// mountPage handles GET / by mounting a widget and redirecting to its page
func (s *HTTPServerAdapter) mountPage(c *gin.Context) {
	var req MountWidgetRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		s.handleError(c, bindingError(err))
		return
	}

	controller, err := s.registry.Mount(c.Request.Context(), req.City)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, widgetPath(controller.ID()))
}

// widgetPage handles GET /widgets/:id
func (s *HTTPServerAdapter) widgetPage(c *gin.Context) {
	view, err := s.widgetView(c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.HTML(http.StatusOK, "widget.html", view)
}

// selectCityForm handles the city <select> submission
func (s *HTTPServerAdapter) selectCityForm(c *gin.Context) {
	id := c.Param("id")

	var req SelectCityRequest
	if err := c.ShouldBind(&req); err != nil {
		s.handleError(c, bindingError(err))
		return
	}
	if err := s.registry.SelectCity(id, req.City); err != nil {
		s.handleError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, widgetPath(id))
}

// refreshForm handles the refresh and retry buttons
func (s *HTTPServerAdapter) refreshForm(c *gin.Context) {
	id := c.Param("id")
	if err := s.registry.Refresh(id); err != nil {
		s.handleError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, widgetPath(id))
}

// getCities handles GET /api/cities
func (s *HTTPServerAdapter) getCities(c *gin.Context) {
	c.JSON(http.StatusOK, CitiesResponse{
		Cities:  s.registry.Cities(),
		Default: s.registry.DefaultCity(),
	})
}

// mountWidget handles POST /api/widgets. The body is optional.
func (s *HTTPServerAdapter) mountWidget(c *gin.Context) {
	var req MountWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.handleError(c, bindingError(err))
		return
	}

	controller, err := s.registry.Mount(c.Request.Context(), req.City)
	if err != nil {
		s.handleError(c, err)
		return
	}

	view, err := s.widgetView(controller.ID())
	if err != nil {
		s.handleError(c, err)
		return
	}

	s.logger.Debug("Widget mounted over API",
		ports.F("widget_id", controller.ID()),
		ports.F("city", view.SelectedCity))
	c.Header("Location", "/api"+widgetPath(controller.ID()))
	c.JSON(http.StatusCreated, view)
}

// getWidget handles GET /api/widgets/:id
func (s *HTTPServerAdapter) getWidget(c *gin.Context) {
	view, err := s.widgetView(c.Param("id"))
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// selectCity handles PUT /api/widgets/:id/city
func (s *HTTPServerAdapter) selectCity(c *gin.Context) {
	id := c.Param("id")

	var req SelectCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, bindingError(err))
		return
	}
	if err := s.registry.SelectCity(id, req.City); err != nil {
		s.handleError(c, err)
		return
	}
	s.respondAccepted(c, id)
}

// refreshWidget handles POST /api/widgets/:id/refresh
func (s *HTTPServerAdapter) refreshWidget(c *gin.Context) {
	id := c.Param("id")
	if err := s.registry.Refresh(id); err != nil {
		s.handleError(c, err)
		return
	}
	s.respondAccepted(c, id)
}

// respondAccepted returns the widget as it is right after the trigger was queued.
// The fetch completes asynchronously.
func (s *HTTPServerAdapter) respondAccepted(c *gin.Context, id string) {
	view, err := s.widgetView(id)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, view)
}

// unmountWidget handles DELETE /api/widgets/:id
func (s *HTTPServerAdapter) unmountWidget(c *gin.Context) {
	if err := s.registry.Unmount(c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
