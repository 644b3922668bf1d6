package handlers

import (
	"net/http"
	"strconv"

	"gamestore/middleware"
	"gamestore/services"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyService *services.CompanyService
}

func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

func (h *CompanyHandler) GetCompanies(c *gin.Context) {
	companies, err := h.companyService.GetCompanies()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, companies)
}

func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.companyService.CreateCompany(userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

// GetCompaniesForReview is the admin triage listing: unapproved companies
// first, newest first within each group.
func (h *CompanyHandler) GetCompaniesForReview(c *gin.Context) {
	if !middleware.RequireAdmin(c) {
		return
	}

	companies, err := h.companyService.GetCompaniesForReview()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, companies)
}

type approveCompanyRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

func (h *CompanyHandler) ApproveCompany(c *gin.Context) {
	if !middleware.RequireAdmin(c) {
		return
	}

	companyID, err := strconv.ParseUint(c.Param("company_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
		return
	}

	var req approveCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.companyService.SetApproved(uint(companyID), *req.Approved); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
