package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"discipline/internal/auth"
	"discipline/internal/cloudinary"
	"discipline/internal/complaint"
	"discipline/internal/config"
	"discipline/internal/queue"
	"discipline/internal/store"
	"discipline/internal/users"
)

// Handler wires the HTTP surface to the domain services.
type Handler struct {
	cfg    config.App
	users  *users.Service
	ledger *complaint.Service
	q      queue.Queue
	cache  *store.Redis       // nil disables the stats cache
	cloud  *cloudinary.Client // nil disables evidence offload
}

// New creates a handler.
func New(cfg config.App, userSvc *users.Service, ledger *complaint.Service, q queue.Queue, cache *store.Redis, cloud *cloudinary.Client) *Handler {
	return &Handler{cfg: cfg, users: userSvc, ledger: ledger, q: q, cache: cache, cloud: cloud}
}

// ---------- Auth ----------

type signupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.users.SignUp(c.Request.Context(), req.Name, req.Email, req.Password, req.Role, req.Department)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrMissingFields),
			errors.Is(err, users.ErrBadRole),
			errors.Is(err, users.ErrBadDepartment),
			errors.Is(err, users.ErrExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("signup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, u)
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := h.users.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, users.ErrInvalidCredentials):
			signinsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			log.Printf("signin failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signin failed"})
		}
		return
	}

	token, _, err := auth.Issue(u.ID, u.Email, u.Role, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.TokenTTL)
	if err != nil {
		log.Printf("token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signin failed"})
		return
	}

	signinsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"token": token, "role": u.Role})
}

// ---------- Student self record ----------

// Me serves the caller's own record plus complaint history, newest first.
// The student id comes from the validated token, never from request input.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	u, err := h.users.Get(c.Request.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		log.Printf("self lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	history, err := h.ledger.ListForStudent(c.Request.Context(), u.ID)
	if err != nil {
		log.Printf("history lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       u,
		"complaints": history,
		"qr_payload": u.Email,
	})
}

// ---------- Identity resolution ----------

// ResolveStudent resolves a typed email against the current student set.
func (h *Handler) ResolveStudent(c *gin.Context) {
	candidates, ok := h.candidates(c)
	if !ok {
		return
	}
	match, err := users.Resolve(candidates, c.Query("email"))
	writeResolution(c, match, err)
}

type scanRequest struct {
	// Payload is nil when the scanner had no code in view.
	Payload *string `json:"payload"`
}

// Scan resolves a decoded QR payload. A non-null payload is treated exactly
// like a typed email; both front doors share the same matching rule.
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	candidates, ok := h.candidates(c)
	if !ok {
		return
	}
	match, err := users.ResolveScan(candidates, req.Payload)
	writeResolution(c, match, err)
}

func (h *Handler) candidates(c *gin.Context) ([]users.User, bool) {
	candidates, err := h.users.Students(c.Request.Context())
	if err != nil {
		log.Printf("student list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return nil, false
	}
	return candidates, true
}

func writeResolution(c *gin.Context, match *users.User, err error) {
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no student found"})
		return
	}
	c.JSON(http.StatusOK, match)
}

// ---------- Complaints ----------

type createComplaintRequest struct {
	StudentID    string `json:"student_id"`
	Reason       string `json:"reason"`
	CustomReason string `json:"custom_reason"`
	Photo        string `json:"photo"`
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	photo := req.Photo
	if h.cloud != nil && cloudinary.IsDataURL(photo) {
		if res, err := h.cloud.UploadBase64(photo); err != nil {
			// evidence hosting is best effort; keep the inline data
			log.Printf("evidence upload failed: %v", err)
		} else {
			photo = res.SecureURL
		}
	}

	cmp, err := h.ledger.Create(c.Request.Context(), req.StudentID, req.Reason, req.CustomReason, photo)
	if err != nil {
		switch {
		case errors.Is(err, complaint.ErrNoStudent),
			errors.Is(err, complaint.ErrReasonRequired),
			errors.Is(err, complaint.ErrNotStudent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, users.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		default:
			log.Printf("complaint create failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "complaint create failed"})
		}
		return
	}

	complaintsFiledTotal.Inc()
	if h.q != nil {
		if err := h.q.Publish(c.Request.Context(), queue.Message{Type: "complaint", Body: []byte(cmp.ID)}); err != nil {
			log.Printf("queue publish failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, cmp)
}

// ListUsers serves the admin dashboard listing: students with nested
// complaint histories, narrowed by optional filters.
func (h *Handler) ListUsers(c *gin.Context) {
	records, err := h.ledger.ListAll(c.Request.Context(), complaint.Filters{
		Department: c.Query("department"),
		Reason:     c.Query("reason"),
		Query:      c.Query("q"),
	})
	if err != nil {
		log.Printf("user list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": records})
}

// ---------- Stats ----------

type statsResponse struct {
	ByDay    map[string]int `json:"by_day"`
	ByReason map[string]int `json:"by_reason"`
	Total    int            `json:"total"`
}

// Stats aggregates the filtered complaint set for the dashboard charts.
// Summaries are cached in redis briefly; the worker drops the cache when a
// new complaint lands.
func (h *Handler) Stats(c *gin.Context) {
	date := c.Query("date")
	filters := complaint.Filters{
		Department: c.Query("department"),
		Reason:     c.Query("reason"),
		Query:      c.Query("q"),
	}

	cacheKey := store.StatsCachePrefix + c.Request.URL.RawQuery
	if cached := h.cache.CacheGet(c.Request.Context(), cacheKey); cached != "" {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	records, err := h.ledger.ListAll(c.Request.Context(), filters)
	if err != nil {
		log.Printf("stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}

	var pool []complaint.Complaint
	for _, rec := range records {
		pool = append(pool, rec.Complaints...)
	}
	pool = complaint.FilterByDate(pool, date)

	resp := statsResponse{
		ByDay:    complaint.CountByDay(pool),
		ByReason: complaint.CountByReason(pool),
		Total:    len(pool),
	}

	if raw, err := json.Marshal(resp); err == nil {
		h.cache.CacheSet(c.Request.Context(), cacheKey, string(raw), h.cfg.StatsCacheTTL)
	}
	c.JSON(http.StatusOK, resp)
}

// ---------- Health ----------

// Healthz reports db and redis reachability.
func (h *Handler) Healthz(db *store.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		redisHealthy := h.cache.Healthy(c.Request.Context())
		dbHealthy := db != nil && db.Client != nil && db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	}
}
