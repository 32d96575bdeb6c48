package consent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ceanlio/kuzamo/internal/models"
	"github.com/Ceanlio/kuzamo/internal/pkg/kv"
	"github.com/Ceanlio/kuzamo/internal/pkg/response"
)

const (
	receiptTTL   = 400 * 24 * time.Hour
	maxBodyBytes = 4096
)

// ConsentDTO is the cookie-preference submission body.
type ConsentDTO struct {
	Lang        string          `json:"lang"`
	Version     string          `json:"version"`
	GPC         bool            `json:"gpc"`
	Preferences map[string]bool `json:"preferences"`
}

// Store persists consent receipts. Append-only; there is no read path.
type Store interface {
	Put(ctx context.Context, key string, receipt *models.ConsentReceipt, ttl time.Duration) error
}

// RedisStore writes receipts to Redis under random per-event keys.
type RedisStore struct {
	kv *kv.Client
}

func NewRedisStore(c *kv.Client) *RedisStore {
	return &RedisStore{kv: c}
}

func (s *RedisStore) Put(ctx context.Context, key string, receipt *models.ConsentReceipt, ttl time.Duration) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, data, ttl)
}

type Handler struct {
	store  Store
	logger *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/consent-log", h.log)
}

// log records a consent receipt best-effort. The endpoint always answers
// 204; malformed bodies and persistence failures never surface to the caller.
func (h *Handler) log(c *gin.Context) {
	defer response.NoContent(c)

	ct := strings.ToLower(c.GetHeader("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil || len(raw) == 0 {
		return
	}

	var dto ConsentDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		dto = ConsentDTO{}
	}

	receipt := &models.ConsentReceipt{
		Time:        time.Now().UTC().Format(time.RFC3339),
		IP:          c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
		Lang:        dto.Lang,
		Version:     dto.Version,
		GPC:         dto.GPC,
		Preferences: dto.Preferences,
	}

	key := fmt.Sprintf("consent:%d:%s", time.Now().UnixMilli(), uuid.NewString())
	if err := h.store.Put(c.Request.Context(), key, receipt, receiptTTL); err != nil {
		h.logger.Debug("consent receipt not persisted", zap.Error(err))
	}
}
