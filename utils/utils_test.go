package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn", true))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("", true))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("bogus", false))
}

func TestHealthStatusHealthy(t *testing.T) {
	up, down := true, false
	assert.True(t, HealthStatus{}.Healthy())
	assert.True(t, HealthStatus{Mongo: &up, Redis: []bool{true}}.Healthy())
	assert.False(t, HealthStatus{Mongo: &down}.Healthy())
	assert.False(t, HealthStatus{Redis: []bool{true, false}}.Healthy())
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internalError")
}

func TestContextLoggerPrefersRequestLogger(t *testing.T) {
	Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Same(t, Logger, ContextLogger(c))

	scoped := zap.NewNop().With(zap.String("request_id", "r1"))
	c.Set(LoggerKey, scoped)
	assert.Same(t, scoped, ContextLogger(c))
}

func TestJSONCodedError(t *testing.T) {
	Logger = zap.NewNop()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	JSONCodedError(c, http.StatusConflict, "scheduleConflict", "Time slot is already booked", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"code":"scheduleConflict","message":"Time slot is already booked"}`, w.Body.String())
}
