package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/HliasMpGH/StepIn/internal/infrastructure/queue/port"
	"github.com/HliasMpGH/StepIn/internal/infrastructure/realtime"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/application/usecase"
	livestate "github.com/HliasMpGH/StepIn/internal/pkg/meeting/livestate/port"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/persistence/repository/adapter"
	"github.com/HliasMpGH/StepIn/internal/pkg/meeting/presentation/controller"
)

// RegisterRoutes registers meeting and chat endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, live livestate.Store, queue qport.Client, hub *realtime.Hub, nearbyRadiusMeters float64) {
	repo := adapter.NewPgMeetingRepository(pool)

	createCtl := controller.NewCreateMeetingController(usecase.NewCreateMeetingUseCase(repo, live))
	getCtl := controller.NewGetMeetingController(usecase.NewGetMeetingUseCase(repo))
	deleteCtl := controller.NewDeleteMeetingController(usecase.NewDeleteMeetingUseCase(repo, live))
	joinCtl := controller.NewJoinMeetingController(usecase.NewJoinMeetingUseCase(repo, live))
	leaveCtl := controller.NewLeaveMeetingController(usecase.NewLeaveMeetingUseCase(repo, live))
	endCtl := controller.NewEndMeetingController(usecase.NewEndMeetingUseCase(repo, live))

	listUC := usecase.NewListMeetingsUseCase(live)
	activeCtl := controller.NewActiveMeetingsController(listUC)
	upcomingCtl := controller.NewUpcomingMeetingsController(listUC)
	nearbyCtl := controller.NewNearbyMeetingsController(usecase.NewNearbyMeetingsUseCase(repo, live, nearbyRadiusMeters))
	participantsCtl := controller.NewGetParticipantsController(usecase.NewGetParticipantsUseCase(live))

	postUC := usecase.NewPostMessageUseCase(repo, live, queue)
	messagesUC := usecase.NewGetMessagesUseCase(repo, live)
	postMsgCtl := controller.NewPostMessageController(postUC, hub)
	meetingMsgsCtl := controller.NewMeetingMessagesController(messagesUC)
	userMsgsCtl := controller.NewUserMessagesController(messagesUC)
	socketCtl := controller.NewMeetingSocketController(live, postUC, hub)

	// POST /api/v1/meetings -> create a meeting
	g.POST("/meetings", createCtl.Handle())

	// GET /api/v1/meetings/active -> IDs of active meetings
	g.GET("/meetings/active", activeCtl.Handle())

	// GET /api/v1/meetings/upcoming -> IDs of scheduled-but-not-started meetings
	g.GET("/meetings/upcoming", upcomingCtl.Handle())

	// GET /api/v1/meetings/nearby -> active meetings near the user's position
	g.GET("/meetings/nearby", nearbyCtl.Handle())

	// GET /api/v1/meetings/:meetingId -> one durable meeting record
	g.GET("/meetings/:meetingId", getCtl.Handle())

	// DELETE /api/v1/meetings/:meetingId -> remove a meeting
	g.DELETE("/meetings/:meetingId", deleteCtl.Handle())

	// POST /api/v1/meetings/:meetingId/join -> mark a participant present
	g.POST("/meetings/:meetingId/join", joinCtl.Handle())

	// POST /api/v1/meetings/:meetingId/leave -> mark a participant departed
	g.POST("/meetings/:meetingId/leave", leaveCtl.Handle())

	// POST /api/v1/meetings/:meetingId/end -> tear down the live projection
	g.POST("/meetings/:meetingId/end", endCtl.Handle())

	// GET /api/v1/meetings/:meetingId/participants -> joined participants
	g.GET("/meetings/:meetingId/participants", participantsCtl.Handle())

	// GET /api/v1/meetings/:meetingId/messages -> the meeting's chat log
	g.GET("/meetings/:meetingId/messages", meetingMsgsCtl.Handle())

	// POST /api/v1/chat -> post a message into the sender's joined meeting
	g.POST("/chat", postMsgCtl.Handle())

	// GET /api/v1/chat/messages -> messages a user posted in their meeting
	g.GET("/chat/messages", userMsgsCtl.Handle())

	// GET /api/v1/chat/ws -> websocket endpoint for realtime chat
	g.GET("/chat/ws", socketCtl.Handle())
}
