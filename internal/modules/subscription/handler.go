package subscription

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ceanlio/kuzamo/internal/pkg/response"
)

const maxBodyBytes = 4096

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/subscribe", h.subscribe)
	rg.GET("/confirm-email", h.confirm)
	rg.GET("/unsubscribe", h.unsubscribe)
}

// respondMode captures the caller's preferred response style once at the
// handler boundary: JSON for programmatic callers, redirects for browsers.
type respondMode struct {
	wantsJSON bool
	wantsHTML bool
}

func resolveRespondMode(c *gin.Context) respondMode {
	accept := c.GetHeader("Accept")
	return respondMode{
		wantsJSON: strings.Contains(accept, "application/json"),
		wantsHTML: strings.Contains(accept, "text/html"),
	}
}

func (h *Handler) subscribe(c *gin.Context) {
	ct := strings.ToLower(c.GetHeader("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		response.Error(c, http.StatusUnsupportedMediaType, "Unsupported content type")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil || len(raw) == 0 || len(raw) > maxBodyBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	}

	var dto SubscribeDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.svc.Subscribe(c.Request.Context(), SubscribeInput{
		Name:    dto.Name,
		Email:   dto.Email,
		Company: dto.Company,
		Lang:    dto.Lang,
		IP:      c.ClientIP(),
	})
	if err != nil {
		h.subscribeError(c, err)
		return
	}

	var id interface{}
	if res.MessageID != "" {
		id = res.MessageID
	}
	response.OK(c, gin.H{
		"message": "Confirmation email sent successfully",
		"email":   res.Email,
		"id":      id,
	})
}

func (h *Handler) subscribeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidNameOrEmail):
		response.Error(c, http.StatusBadRequest, "Invalid name or email")
	case errors.Is(err, ErrCompanyTooLong):
		response.Error(c, http.StatusBadRequest, "Company too long")
	case errors.Is(err, ErrDisposableDomain):
		response.Error(c, http.StatusBadRequest, "Disposable email not allowed")
	case errors.Is(err, ErrNoMX):
		response.Error(c, http.StatusBadRequest, "Email domain has no MX")
	case errors.Is(err, ErrRateLimited):
		response.Error(c, http.StatusTooManyRequests, "Too many requests")
	case errors.Is(err, ErrAlreadyPending):
		response.Error(c, http.StatusConflict, "Already requested. Please check your inbox.")
	case errors.Is(err, ErrAlreadyConfirmed):
		response.Error(c, http.StatusConflict, "Email already confirmed. You are already on our list.")
	case errors.Is(err, ErrUnsubscribed):
		response.Error(c, http.StatusConflict, "This email has been unsubscribed. Please contact support if you want to resubscribe.")
	case errors.Is(err, ErrSendFailed):
		h.logger.Error("confirmation email delivery failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to send email")
	default:
		h.logger.Error("subscribe failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Failed to handle subscribe")
	}
}

func (h *Handler) confirm(c *gin.Context) {
	mode := resolveRespondMode(c)

	tokenStr := c.Query("token")
	if tokenStr == "" {
		response.Error(c, http.StatusBadRequest, "Missing token")
		return
	}

	err := h.svc.Confirm(c.Request.Context(), tokenStr)
	switch {
	case err == nil:
		if mode.wantsJSON {
			response.OK(c, gin.H{"message": "Email confirmed"})
			return
		}
		c.Redirect(http.StatusFound, "/confirm-email.html?ok=1")
	case errors.Is(err, ErrTokenInvalid):
		response.Error(c, http.StatusBadRequest, "Invalid token")
	case errors.Is(err, ErrTokenExpired):
		response.Error(c, http.StatusBadRequest, "Token expired")
	case errors.Is(err, ErrAlreadyConfirmed):
		response.Error(c, http.StatusConflict, "Email already confirmed")
	default:
		h.logger.Error("confirm failed", zap.Error(err))
		if mode.wantsHTML {
			c.Redirect(http.StatusFound, "/confirm-email.html?error=1")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to confirm email")
	}
}

func (h *Handler) unsubscribe(c *gin.Context) {
	mode := resolveRespondMode(c)

	tokenStr := c.Query("token")
	if tokenStr == "" {
		response.Error(c, http.StatusBadRequest, "Missing token")
		return
	}

	err := h.svc.Unsubscribe(c.Request.Context(), tokenStr)
	switch {
	case err == nil:
		if mode.wantsJSON {
			response.OK(c, gin.H{"message": "Successfully unsubscribed"})
			return
		}
		c.Redirect(http.StatusFound, "/unsubscribe.html?success=1")
	case errors.Is(err, ErrTokenInvalid):
		response.Error(c, http.StatusBadRequest, "Invalid token")
	case errors.Is(err, ErrTokenExpired):
		response.Error(c, http.StatusBadRequest, "Token expired")
	case errors.Is(err, ErrWrongTokenAction):
		response.Error(c, http.StatusBadRequest, "Invalid token action")
	default:
		h.logger.Error("unsubscribe failed", zap.Error(err))
		if mode.wantsHTML {
			c.Redirect(http.StatusFound, "/unsubscribe.html?error=1")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to unsubscribe")
	}
}
