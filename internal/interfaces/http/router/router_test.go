package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ferreteria/backoffice/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	var order []string
	r.Use(func(c *gin.Context) {
		order = append(order, "api")
		c.Next()
	})

	group := NewDomainGroup("cash-registers", "/cash-registers")
	group.GET("/ping", func(c *gin.Context) {
		order = append(order, "handler")
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	engine.GET("/health", func(c *gin.Context) {
		order = append(order, "health")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cash-registers/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, []string{"api", "handler"}, order)

	// API middleware stays off routes registered outside the group
	order = nil
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, []string{"health"}, order)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("checks", "/checks")
		assert.Equal(t, "checks", g.Name())
		assert.Equal(t, "/checks", g.Prefix())
	})

	t.Run("static segment beside a parameter", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("checks", "/checks")
		g.GET("/alerts", func(c *gin.Context) { c.String(http.StatusOK, "alerts") }).
			GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "check "+c.Param("id")) }).
			POST("/:id/deposit", func(c *gin.Context) { c.String(http.StatusOK, "deposit "+c.Param("id")) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
			want   string
		}{
			{http.MethodGet, "/api/v1/checks/alerts", "alerts"},
			{http.MethodGet, "/api/v1/checks/42", "check 42"},
			{http.MethodPost, "/api/v1/checks/42/deposit", "deposit 42"},
		}
		for _, tt := range tests {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tt.path)
			assert.Equal(t, tt.want, w.Body.String())
		}
	})

	t.Run("group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("cash-movements", "/cash-movements")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "cash")
			c.Next()
		})
		g.POST("", func(c *gin.Context) { c.Status(http.StatusCreated) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/cash-movements", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "cash", w.Header().Get("X-Group"))
	})

	t.Run("subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("cash", "/cash")
		g.Group("sessions", "/sessions").GET("/:id", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id"))
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cash/sessions/s1", nil))
		assert.Equal(t, "s1", w.Body.String())
	})

	t.Run("tags requests with the group name", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("cash", "/cash")
		g.GET("", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.ResourceKey)) })
		g.Group("cash-sessions", "/sessions").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(middleware.ResourceKey))
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cash", nil))
		assert.Equal(t, "cash", w.Body.String())

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cash/sessions", nil))
		assert.Equal(t, "cash-sessions", w.Body.String())
	})

	t.Run("unregistered method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("checks", "/checks")
		g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/checks", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
