package handlers

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db             *gorm.DB // nil when the memory store is active
	redis          *redis.Client
	smtpConfigured bool
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, smtpConfigured bool) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, smtpConfigured: smtpConfigured}
}

type HealthResponse struct {
	Status         string            `json:"status"`
	Services       map[string]string `json:"services"`
	SMTPConfigured bool              `json:"smtp_configured"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.Ping() != nil {
			services["database"] = "unhealthy"
			status = "unhealthy"
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "memory"
	}

	if h.redis != nil {
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			services["redis"] = "unhealthy"
			status = "unhealthy"
		} else {
			services["redis"] = "healthy"
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status:         status,
		Services:       services,
		SMTPConfigured: h.smtpConfigured,
	})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	// Simple readiness check
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
