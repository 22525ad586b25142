package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/models"
)

// Gateway validates incoming requests and forwards the valid ones to
// the backend service. Invalid requests are rejected here so the
// backend only sees well-formed traffic.
type Gateway struct {
	serverURL string
	client    *http.Client
	breaker   *Breaker
	logger    *zerolog.Logger
}

func New(cfg config.GatewayConfig, logger *zerolog.Logger) *Gateway {
	return &Gateway{
		serverURL: cfg.ServerURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		breaker: NewBreaker(
			cfg.Breaker.MaxFailures,
			time.Duration(cfg.Breaker.TimeoutSeconds)*time.Second,
		),
		logger: logger,
	}
}

// forward replays the incoming request against the backend and copies
// the response through verbatim.
func (g *Gateway) forward(c *gin.Context) {
	var body io.Reader
	if c.Request.Body != nil {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		body = bytes.NewReader(raw)
	}

	url := g.serverURL + c.Request.URL.Path
	if q := c.Request.URL.RawQuery; q != "" {
		url += "?" + q
	}
	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, url, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create backend request"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if uid := c.GetHeader(api.HeaderUserID); uid != "" {
		req.Header.Set(api.HeaderUserID, uid)
	}
	if rid := c.GetString("request_id"); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	var resp *http.Response
	err = g.breaker.Do(func() error {
		var doErr error
		resp, doErr = g.client.Do(req)
		return doErr
	})
	if err == ErrBreakerOpen {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backend is temporarily unavailable"})
		return
	}
	if err != nil {
		g.logger.Error().Err(err).Str("url", url).Msg("backend request failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backend is unavailable"})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read backend response"})
		return
	}
	c.Data(resp.StatusCode, "application/json", data)
}

// requireUser rejects requests missing the identity header before they
// reach the backend.
func requireUser(c *gin.Context) bool {
	_, ok := userHeader(c)
	return ok
}

func userHeader(c *gin.Context) (string, bool) {
	raw := c.GetHeader(api.HeaderUserID)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.HeaderUserID + " header is required"})
		return "", false
	}
	return raw, true
}

func (g *Gateway) forwardWithUser(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	g.forward(c)
}

// pageParams rejects malformed from/size query values. Absent params
// are left for the backend to default.
func pageParams(c *gin.Context) bool {
	if raw, ok := c.GetQuery("from"); ok {
		if n, err := strconv.Atoi(raw); err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a non-negative number"})
			return false
		}
	}
	if raw, ok := c.GetQuery("size"); ok {
		if n, err := strconv.Atoi(raw); err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a positive number"})
			return false
		}
	}
	return true
}

func (g *Gateway) listWithUser(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	if !pageParams(c) {
		return
	}
	g.forward(c)
}

func validEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// createUser rejects blank names and malformed emails at the edge.
func (g *Gateway) createUser(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	var in struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be blank"})
		return
	}
	if !validEmail(in.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email must be a valid email address"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	g.forward(c)
}

// updateUser allows blank fields (partial update) but a non-blank email
// must still parse.
func (g *Gateway) updateUser(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	var in struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(in.Email) != "" && !validEmail(in.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email must be a valid email address"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	g.forward(c)
}

// createComment rejects blank comment text at the edge.
func (g *Gateway) createComment(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	var in struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be blank"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	g.forward(c)
}

// createBooking checks the booking window before forwarding. Rejecting
// inverted or past windows here keeps obviously bad bookings off the
// backend entirely.
func (g *Gateway) createBooking(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	var in struct {
		ItemID uint      `json:"itemId"`
		Start  time.Time `json:"start"`
		End    time.Time `json:"end"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if in.Start.IsZero() || in.End.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required"})
		return
	}
	if !in.End.After(in.Start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return
	}
	if in.Start.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must not be in the past"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	g.forward(c)
}

// listBookings rejects unknown state filters without a backend round
// trip.
func (g *Gateway) listBookings(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	if !pageParams(c) {
		return
	}
	raw := c.DefaultQuery("state", "all")
	if _, ok := models.ParseBookingState(raw); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown state: " + raw})
		return
	}
	g.forward(c)
}

// searchItems answers blank searches locally with an empty list.
func (g *Gateway) searchItems(c *gin.Context) {
	if !pageParams(c) {
		return
	}
	if strings.TrimSpace(c.Query("text")) == "" {
		c.JSON(http.StatusOK, []struct{}{})
		return
	}
	g.forward(c)
}
