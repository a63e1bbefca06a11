// Package web provides the HTTP server and web interface for kotoba
package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/kotoba-school/kotoba/internal/auth"
	"github.com/kotoba-school/kotoba/internal/catalog"
	"github.com/kotoba-school/kotoba/internal/config"
	"github.com/kotoba-school/kotoba/internal/database"
	"github.com/kotoba-school/kotoba/internal/models"
)

// WebServer represents the web server
type WebServer struct {
	DB        *database.Database
	Router    *gin.Engine
	Config    *config.WebConfig
	Auth      *auth.Service
	Catalog   *catalog.Reader
	StartTime time.Time // Track server start time for uptime calculations
}

// TemplateData represents common template data
type TemplateData struct {
	Title               string
	CurrentTime         string
	Port                int
	User                *models.SessionUser
	AppVersion          string
	RegistrationEnabled bool
}

// RegisterPageData represents data for the combined register/login page
type RegisterPageData struct {
	TemplateData
	Form            auth.RegisterForm
	RegisterErrors  []string
	RegisterSuccess string
	LoginErrors     []string
	LoginSuccess    string
}

// ProfilePageData represents data for the profile page
type ProfilePageData struct {
	TemplateData
	FlashSuccess string
	FlashError   string
	MemberSince  string
}

// CoursePageData represents data for the course management page
type CoursePageData struct {
	TemplateData
	Courses []*models.Course
}

// NewServer creates the web server with routes and middleware configured
func NewServer(db *database.Database, webconfig *config.WebConfig, authService *auth.Service, catalogReader *catalog.Reader) *WebServer {
	// Set Gin to release mode for production
	if !webconfig.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Configure Gin to trust reverse proxy headers
	// Set trusted proxies for common reverse proxy setups (nginx, etc.)
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	router.Use(secure.New(secureConfig))

	server := &WebServer{
		DB:      db,
		Router:  router,
		Config:  webconfig,
		Auth:    authService,
		Catalog: catalogReader,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Static files first (highest priority)
	s.Router.GET("/static/*filepath", EmbeddedStaticHandler("/static"))

	s.Router.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	s.Router.GET("/robots.txt", func(c *gin.Context) {
		c.String(http.StatusOK, "User-agent: *\nDisallow:\n")
	})
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(200, "pong")
	})

	// Public pages
	s.Router.GET("/", s.homePage)
	s.Router.GET("/course-management", s.courseManagementPage)
	s.Router.GET("/contact", s.contactPage)

	// Account pages and actions
	s.Router.GET("/register", s.registerPage)
	s.Router.POST("/register", s.registerSubmit)
	s.Router.POST("/login", s.loginSubmit)
	s.Router.POST("/logout", s.logout)

	// Pages behind a session
	authorized := s.Router.Group("/")
	authorized.Use(s.WebAuthRequired())
	{
		authorized.GET("/profile", s.profilePage)
		authorized.GET("/settings", s.settingsPage)
	}

	// JSON API
	s.Router.GET("/api/courses", s.getCourses)
}

// Start runs the HTTP (or HTTPS) server until it fails
func (s *WebServer) Start() error {
	addr := ":" + strconv.Itoa(s.Config.ListenPort)
	s.StartTime = time.Now() // Set the start time for uptime calculations
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("Starting HTTPS server on %s", addr)
		return s.Router.RunTLS(addr, s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("Starting HTTP server on %s", addr)
	return s.Router.Run(addr)
}
