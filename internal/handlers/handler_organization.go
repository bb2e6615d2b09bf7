package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
)

type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func registerOrganizationRoutes(rg *gin.RouterGroup, os portssvc.OrganizationSvcFacade) {
	h := &organizationHandler{orgService: os}
	orgs := rg.Group("/organizations")
	orgs.POST("", h.createOrganization)
	orgs.GET("", h.listOrganizations)
	orgs.POST("/:orgId/members", h.addMember)
}

// createOrganization godoc
// @Summary Create an organization
// @Description Creates an organization and makes the caller its owner
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create organization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"organization": dto.ToOrganizationResponse(org)})
}

// listOrganizations godoc
// @Summary List the caller's organizations
// @Description Returns every organization where the caller has an active membership
// @Tags organizations
// @Produce json
// @Success 200 {array} dto.OrganizationResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /organizations [get]
func (h *organizationHandler) listOrganizations(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orgs, err := h.orgService.ListUserOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": dto.ToOrganizationResponses(orgs)})
}

// addMember godoc
// @Summary Add a member to an organization
// @Description Adds or reactivates a membership. Owner or admin role required.
// @Tags organizations
// @Accept json
// @Produce json
// @Param orgId path string true "Organization ID"
// @Param member body dto.AddMemberRequest true "Member details"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Router /organizations/{orgId}/members [post]
func (h *organizationHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	orgID := c.Param("orgId")

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for add member", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.orgService.AddUserToOrganization(c.Request.Context(), userID, req.UserID, orgID, req.Role); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
