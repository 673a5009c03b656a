package handlers

// handlers turn browser and API requests into controller actions.
// every request is tied to a session through the session cookie.

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"moodmix/controller"
	"moodmix/pages"
	"moodmix/sentry"
)

const (
	SessionCookie = "moodmix_session"
	sessionKey    = "sessionID"
	cookieMaxAge  = int(30 * 24 * time.Hour / time.Second)
)

type MoodRequest struct {
	Description string `json:"description" form:"description"`
}

type Manager struct {
	Controller *controller.Controller
	Hints      *Hints
}

func NewManager(controller *controller.Controller) *Manager {
	hints := NewHints()
	controller.OnEvict(hints.Forget)

	return &Manager{
		Controller: controller,
		Hints:      hints,
	}
}

// NewRouter wires the page, form and JSON routes onto a fresh gin engine.
func NewRouter(manager *Manager) (*gin.Engine, error) {
	templates, err := pages.New()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(requestLogger(), gin.Recovery(), sentry.GetSentryGin())
	router.SetHTMLTemplate(templates)

	router.GET("/healthz", manager.Health)

	browser := router.Group("/", manager.session)
	browser.GET("/", manager.Index)
	browser.POST("/mood", manager.SubmitForm)
	browser.POST("/regenerate", manager.RegenerateForm)
	browser.POST("/reset", manager.ResetForm)

	api := router.Group("/api", manager.session)
	api.GET("/state", manager.State)
	api.POST("/mood", manager.Submit)
	api.POST("/regenerate", manager.Regenerate)
	api.POST("/reset", manager.Reset)

	return router, nil
}

// session makes sure the request carries a valid session cookie, issuing a
// new one otherwise.
func (manager *Manager) session(c *gin.Context) {
	sessionID, err := c.Cookie(SessionCookie)
	if err != nil || uuid.Validate(sessionID) != nil {
		sessionID = uuid.NewString()
		log.Tracef("issuing session %s", sessionID)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, cookieMaxAge, "/", "", false, true)
	c.Set(sessionKey, sessionID)
	c.Next()
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func (manager *Manager) Index(c *gin.Context) {
	id := sessionID(c)
	c.HTML(http.StatusOK, "index", gin.H{
		"Snapshot":    manager.Controller.View(id),
		"Placeholder": manager.Hints.Placeholder(id),
	})
}

// SubmitForm handles the page form; outcomes are shown on the next render.
func (manager *Manager) SubmitForm(c *gin.Context) {
	id := sessionID(c)
	_, err := manager.Controller.Submit(c.Request.Context(), id, c.PostForm("description"))
	logOutcome(id, "SubmitForm", err)
	c.Redirect(http.StatusSeeOther, "/")
}

func (manager *Manager) RegenerateForm(c *gin.Context) {
	id := sessionID(c)
	_, err := manager.Controller.Regenerate(c.Request.Context(), id)
	logOutcome(id, "RegenerateForm", err)
	c.Redirect(http.StatusSeeOther, "/")
}

func (manager *Manager) ResetForm(c *gin.Context) {
	id := sessionID(c)
	_, err := manager.Controller.Reset(id)
	logOutcome(id, "ResetForm", err)
	c.Redirect(http.StatusSeeOther, "/")
}

func (manager *Manager) State(c *gin.Context) {
	c.JSON(http.StatusOK, manager.Controller.Snapshot(sessionID(c)))
}

func (manager *Manager) Submit(c *gin.Context) {
	var request MoodRequest
	if err := c.ShouldBind(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	snapshot, err := manager.Controller.Submit(c.Request.Context(), sessionID(c), request.Description)
	respond(c, snapshot, err)
}

func (manager *Manager) Regenerate(c *gin.Context) {
	snapshot, err := manager.Controller.Regenerate(c.Request.Context(), sessionID(c))
	respond(c, snapshot, err)
}

func (manager *Manager) Reset(c *gin.Context) {
	snapshot, err := manager.Controller.Reset(sessionID(c))
	respond(c, snapshot, err)
}

func (manager *Manager) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"sessions": manager.Controller.SessionCount(),
	})
}

func respond(c *gin.Context, snapshot controller.Snapshot, err error) {
	if err == nil {
		c.JSON(http.StatusOK, snapshot)
		return
	}
	c.JSON(statusFor(err), gin.H{
		"error": err.Error(),
		"state": snapshot,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, controller.ErrEmptyDescription):
		return http.StatusBadRequest
	case errors.Is(err, controller.ErrBusy), errors.Is(err, controller.ErrNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func logOutcome(sessionID string, method string, err error) {
	if err == nil {
		return
	}
	logger := log.WithFields(log.Fields{
		"module":  "handlers",
		"method":  method,
		"session": sessionID,
	})
	if errors.Is(err, controller.ErrUnexpected) {
		logger.Errorf("action failed: %v", err)
		return
	}
	logger.Warnf("action rejected: %v", err)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"module": "http",
			"method": c.Request.Method,
		}).Debugf("%s %d %s", c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
