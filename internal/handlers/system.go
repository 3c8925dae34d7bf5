// internal/handlers/system.go
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/docker/go-units"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

type SystemHandler struct {
	startedAt time.Time
}

func NewSystemHandler() *SystemHandler {
	return &SystemHandler{startedAt: time.Now()}
}

// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": Version,
	})
}

// GET /system/memory
func (h *SystemHandler) Memory(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, gin.H{
		"heapAlloc":      m.HeapAlloc,
		"heapAllocHuman": units.BytesSize(float64(m.HeapAlloc)),
		"heapSys":        m.HeapSys,
		"totalAlloc":     m.TotalAlloc,
		"sys":            m.Sys,
		"sysHuman":       units.BytesSize(float64(m.Sys)),
		"numGC":          m.NumGC,
		"goroutines":     runtime.NumGoroutine(),
		"uptimeSeconds":  int64(time.Since(h.startedAt).Seconds()),
	})
}
