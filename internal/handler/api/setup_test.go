//go:build unit

package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockflow/internal/handler/api"
	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSetupCommands struct {
	info    *commands.SetupCompanyResult
	infoErr error
}

func (s *stubSetupCommands) SetupCompany(context.Context, reqdto.SetupCompanyRequest) (*commands.SetupCompanyResult, error) {
	return s.info, s.infoErr
}

func (s *stubSetupCommands) CompanyInfo(context.Context) (*commands.SetupCompanyResult, error) {
	return s.info, s.infoErr
}

func newSetupRouter(stub *stubSetupCommands) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := api.NewSetupHandler(stub)
	engine.GET("/api/setup/company", handler.CompanyStatus)
	return engine
}

func TestCompanyStatus_ConfiguredRevealsOnlyFlag(t *testing.T) {
	stub := &stubSetupCommands{info: &commands.SetupCompanyResult{
		CompanyName: "Golden Stone Trading",
		Abbrev:      "GST",
		CompanyCode: "GST1234",
	}}
	engine := newSetupRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/setup/company", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"configured": true}`, rec.Body.String())
}

func TestCompanyStatus_NotConfigured(t *testing.T) {
	stub := &stubSetupCommands{infoErr: commands.ErrCompanyNotConfigured}
	engine := newSetupRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/setup/company", nil)
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"configured": false}`, rec.Body.String())
}
