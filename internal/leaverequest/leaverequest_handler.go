package leaverequest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mohr/internal/middleware"
	"mohr/internal/shared/apperror"
	"mohr/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyCacheTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leaverequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	caller, _ := middleware.IdentityFrom(c)

	// Release the idempotency lock once the request settles, success
	// or failure, so the client can retry instead of hitting
	// PROCESSING until the lock TTL expires.
	lockKey := c.GetString("idempotency_lock_key")
	cacheKey := c.GetString("idempotency_cache_key")
	if h.rdb != nil && lockKey != "" {
		defer h.rdb.Del(c.Request.Context(), lockKey)
	}

	var req CreateLeaveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// Only successful creates are cached for replay.
	if h.rdb != nil && cacheKey != "" {
		if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
			if err := h.rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyCacheTTL).Err(); err != nil {
				h.logger.Warn("idempotency cache write failed", zap.Error(err))
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	caller, _ := middleware.IdentityFrom(c)
	filter := ListFilter{
		Status:     c.Query("status"),
		LeaveType:  c.Query("leave_type"),
		EmployeeID: c.Query("employee_id"),
	}

	resp, err := h.service.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	// Pagination is opt-in: without an explicit limit the entire
	// scoped list is returned.
	page, limit, paginated := pageParams(c)
	if !paginated {
		response.Success(c, http.StatusOK, resp, nil)
		return
	}

	total := int64(len(resp))
	meta := response.NewPaginationMeta(total, page, limit)

	start := (page - 1) * limit
	if start > len(resp) {
		start = len(resp)
	}
	end := start + limit
	if end > len(resp) {
		end = len(resp)
	}

	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func pageParams(c *gin.Context) (page, limit int, paginated bool) {
	limitStr, paginated := c.GetQuery("limit")
	if !paginated {
		return 0, 0, false
	}
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(limitStr)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit, true
}

func (h *Handler) GetByID(c *gin.Context) {
	caller, _ := middleware.IdentityFrom(c)

	resp, err := h.service.GetByID(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	caller, _ := middleware.IdentityFrom(c)

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	caller, _ := middleware.IdentityFrom(c)

	if err := h.service.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Leave request deleted"}, nil)
}

func (h *Handler) Stats(c *gin.Context) {
	caller, _ := middleware.IdentityFrom(c)

	resp, err := h.service.StatsOverview(c.Request.Context(), caller)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Search(c *gin.Context) {
	caller, _ := middleware.IdentityFrom(c)

	resp, err := h.service.Search(c.Request.Context(), caller, c.Param("query"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	caller, _ := middleware.IdentityFrom(c)
	filter := ListFilter{
		Status:     c.Query("status"),
		LeaveType:  c.Query("leave_type"),
		EmployeeID: c.Query("employee_id"),
	}

	data, err := h.service.ExportXLSX(c.Request.Context(), caller, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leave-requests-%s.xlsx", c.Query("status"))
	if c.Query("status") == "" {
		filename = "leave-requests.xlsx"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) Calendar(c *gin.Context) {
	caller, _ := middleware.IdentityFrom(c)

	feed, err := h.service.CalendarFeed(c.Request.Context(), caller)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
