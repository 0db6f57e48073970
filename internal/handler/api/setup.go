package api

import (
	"errors"
	"net/http"

	reqdto "stockflow/internal/handler/dto/request"
	resdto "stockflow/internal/handler/dto/response"
	"stockflow/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SetupHandler struct {
	setupCommands commands.SetupCommands
}

func NewSetupHandler(setupCommands commands.SetupCommands) *SetupHandler {
	return &SetupHandler{setupCommands: setupCommands}
}

func (h *SetupHandler) SetupCompany(c *gin.Context) {
	var req reqdto.SetupCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.setupCommands.SetupCompany(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCompanyAlreadyConfigured):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Company is already configured",
			})
		case errors.Is(err, commands.ErrAbbrevNotDerivable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Could not derive a company abbreviation",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CompanyResponse{
		CompanyName: result.CompanyName,
		Abbrev:      result.Abbrev,
		CompanyCode: result.CompanyCode,
	})
}

// CompanyStatus serves the anonymous pre-login check. Once configured it
// only admits that setup happened; the code itself requires a login.
func (h *SetupHandler) CompanyStatus(c *gin.Context) {
	_, err := h.setupCommands.CompanyInfo(c.Request.Context())
	if err != nil {
		if errors.Is(err, commands.ErrCompanyNotConfigured) {
			c.JSON(http.StatusOK, resdto.CompanyStatusResponse{Configured: false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.CompanyStatusResponse{Configured: true})
}

func (h *SetupHandler) CompanyInfo(c *gin.Context) {
	result, err := h.setupCommands.CompanyInfo(c.Request.Context())
	if err != nil {
		if errors.Is(err, commands.ErrCompanyNotConfigured) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Company is not configured yet",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.CompanyResponse{
		CompanyName: result.CompanyName,
		Abbrev:      result.Abbrev,
		CompanyCode: result.CompanyCode,
	})
}
