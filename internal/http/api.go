package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"asset-tracker/internal/domain"
	"asset-tracker/internal/repository"
	"asset-tracker/internal/service"
)

const contextUserKey = "auth.user"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	assets service.AssetService
}

func NewHandler(users service.UserService, assets service.AssetService) *Handler {
	return &Handler{
		users:  users,
		assets: assets,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
		}

		assets := api.Group("/assets")
		assets.Use(h.apiKeyAuth())
		{
			assets.GET("", h.listAssets)
			assets.GET("/:id", h.getAsset)
			assets.POST("", h.createAsset)
			assets.PUT("/:id", h.updateAsset)
			assets.DELETE("/:id", h.deleteAsset)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, x-api-key")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// apiKeyAuth authorizes every asset-scoped request. The credential must match
// a stored user; the resolved identity is attached to the request context and
// is the authority for ownership checks downstream.
func (h *Handler) apiKeyAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("x-api-key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing api key"})
			return
		}

		user, err := h.users.GetByAPIKey(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func authedUser(c *gin.Context) *domain.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail), errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful. Waiting for admin verification."})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotVerified):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_key": user.APIKey, "user_id": user.ID})
}

func (h *Handler) listAssets(c *gin.Context) {
	user := authedUser(c)

	userIDStr := c.Query("user_id")
	if userIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id in query"})
		return
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	if user == nil || user.ID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "user_id does not match the authenticated user"})
		return
	}

	filter := repository.AssetFilter{
		UserID: userID,
		Status: domain.AssetStatus(c.Query("status")),
	}

	if v := c.Query("department_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid department_id"})
			return
		}
		filter.DepartmentID = &id
	}
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		filter.CategoryID = &id
	}

	filter.Page, err = parsePositiveInt(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	filter.Limit, err = parsePositiveInt(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	assets, err := h.assets.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]AssetResponse, len(assets))
	for i := range assets {
		resp[i] = assetToResponse(assets[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getAsset(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	asset, err := h.assets.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assetToResponse(*asset))
}

type assetRequest struct {
	UserID           int64   `json:"user_id"`
	AssetTag         string  `json:"asset_tag"`
	Name             string  `json:"name"`
	PurchaseDate     string  `json:"purchase_date"`
	Value            float64 `json:"value"`
	Condition        string  `json:"condition"`
	Status           string  `json:"status"`
	WarrantyExpiry   string  `json:"warranty_expiry"`
	WarrantyProvider string  `json:"warranty_provider"`
	Location         string  `json:"location"`
	CategoryID       int64   `json:"category_id"`
	DepartmentID     int64   `json:"department_id"`
	AssignedTo       string  `json:"assigned_to"`
}

func (req assetRequest) fields() service.AssetFields {
	return service.AssetFields{
		AssetTag:         req.AssetTag,
		Name:             req.Name,
		PurchaseDate:     req.PurchaseDate,
		Value:            req.Value,
		Condition:        req.Condition,
		Status:           domain.AssetStatus(req.Status),
		WarrantyExpiry:   req.WarrantyExpiry,
		WarrantyProvider: req.WarrantyProvider,
		Location:         req.Location,
		CategoryID:       req.CategoryID,
		DepartmentID:     req.DepartmentID,
		AssignedTo:       req.AssignedTo,
	}
}

func (h *Handler) createAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_id in body"})
		return
	}
	user := authedUser(c)
	if user == nil || user.ID != req.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "user_id does not match the authenticated user"})
		return
	}

	asset, err := h.assets.Create(c.Request.Context(), req.UserID, req.fields())
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, assetToResponse(*asset))
}

func (h *Handler) updateAsset(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := authedUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	asset, err := h.assets.Update(c.Request.Context(), id, user.ID, req.fields())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assetToResponse(*asset))
}

func (h *Handler) deleteAsset(c *gin.Context) {
	id, ok := assetIDParam(c)
	if !ok {
		return
	}

	user := authedUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return
	}

	if err := h.assets.SoftDelete(c.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func assetIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return 0, false
	}
	return id, true
}

func parsePositiveInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, errors.New("not a positive integer")
	}
	return v, nil
}

type AssetResponse struct {
	ID               int64   `json:"asset_id"`
	AssetTag         string  `json:"asset_tag"`
	Name             string  `json:"name"`
	PurchaseDate     string  `json:"purchase_date"`
	Value            float64 `json:"value"`
	Condition        string  `json:"condition"`
	Status           string  `json:"status"`
	WarrantyExpiry   string  `json:"warranty_expiry"`
	WarrantyProvider string  `json:"warranty_provider"`
	Location         string  `json:"location"`
	CategoryID       int64   `json:"category_id"`
	DepartmentID     int64   `json:"department_id"`
	AssignedTo       string  `json:"assigned_to"`
	UserID           int64   `json:"user_id"`
	IsDeleted        bool    `json:"is_deleted"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

func assetToResponse(asset domain.Asset) AssetResponse {
	return AssetResponse{
		ID:               asset.ID,
		AssetTag:         asset.AssetTag,
		Name:             asset.Name,
		PurchaseDate:     asset.PurchaseDate,
		Value:            asset.Value,
		Condition:        asset.Condition,
		Status:           string(asset.Status),
		WarrantyExpiry:   asset.WarrantyExpiry,
		WarrantyProvider: asset.WarrantyProvider,
		Location:         asset.Location,
		CategoryID:       asset.CategoryID,
		DepartmentID:     asset.DepartmentID,
		AssignedTo:       asset.AssignedTo,
		UserID:           asset.UserID,
		IsDeleted:        asset.IsDeleted,
		CreatedAt:        asset.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        asset.UpdatedAt.Format(time.RFC3339),
	}
}
