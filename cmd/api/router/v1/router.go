package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/HliasMpGH/StepIn/internal/infrastructure/queue/port"
	"github.com/HliasMpGH/StepIn/internal/infrastructure/realtime"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	meetingHTTP "github.com/HliasMpGH/StepIn/internal/pkg/meeting/presentation/http"
	userHTTP "github.com/HliasMpGH/StepIn/internal/pkg/user/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, live livestate.Store, queue qport.Client, hub *realtime.Hub, nearbyRadiusMeters float64) {
	v1 := r.Group("/api/v1")
	meetingHTTP.RegisterRoutes(v1, pool, live, queue, hub, nearbyRadiusMeters)
	userHTTP.RegisterRoutes(v1, pool)
}
