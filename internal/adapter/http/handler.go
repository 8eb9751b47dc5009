package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"monsterforge/internal/app/auth"
	"monsterforge/internal/app/catalog"
	"monsterforge/internal/app/intake"
	"monsterforge/internal/app/observe"
	"monsterforge/internal/app/ports"
	"monsterforge/internal/app/replay"
	"monsterforge/internal/app/status"
	"monsterforge/internal/domain/forge"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const playerIDHeader = "X-Player-ID"
const playerKeyHeader = "X-Player-Key"

type Handler struct {
	RegisterUC auth.RegisterUseCase
	AuthUC     auth.VerifyUseCase
	IntakeUC   intake.UseCase
	ObserveUC  observe.UseCase
	StatusUC   status.UseCase
	ReplayUC   replay.UseCase
	CatalogUC  catalog.UseCase
	Entities   zoneEntityLister
	KPI        kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	player := s.Group("/api/player")
	player.POST("/register", h.register)
	player.POST("/intent", h.intent)
	player.POST("/state", h.state)

	zone := s.Group("/api/zone")
	zone.GET("/:zone_id/entities", h.zoneEntities)
	zone.GET("/:zone_id/events", h.zoneEvents)
	zone.GET("/:zone_id/status", h.zoneStatus)

	cat := s.Group("/api/catalog")
	cat.GET("/goods", h.catalogGoods)
	cat.GET("/goods/:name", h.catalogGood)
	cat.GET("/monster_types", h.catalogMonsterTypes)
	cat.GET("/skills", h.catalogSkills)

	s.GET("/ops/kpi", h.kpi)
}

type intentRequest struct {
	ZoneID         string         `json:"zone_id"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	Action         string         `json:"action"`
	Data           map[string]any `json:"data,omitempty"`
}

type stateRequest struct {
	ZoneID     string `json:"zone_id"`
	EventLimit int    `json:"event_limit,omitempty"`
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	resp, err := h.RegisterUC.Execute(c, auth.RegisterRequest{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) intent(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body intentRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.IntakeUC.Execute(c, intake.Request{
		PlayerID:       playerID,
		ZoneID:         body.ZoneID,
		IdempotencyKey: body.IdempotencyKey,
		Action:         body.Action,
		Data:           body.Data,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusAccepted, resp)
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body stateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ObserveUC.Execute(c, observe.Request{
		PlayerID:   playerID,
		ZoneID:     body.ZoneID,
		EventLimit: body.EventLimit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

// zoneEntities dumps the raw zone records. Debug surface, no auth.
func (h Handler) zoneEntities(c context.Context, ctx *app.RequestContext) {
	zoneID := string(ctx.Param("zone_id"))
	if h.Entities == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "entity lister not configured")
		return
	}
	records, err := h.Entities.ListByZone(c, zoneID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"zone_id":  zoneID,
		"entities": records,
	})
}

func (h Handler) zoneEvents(c context.Context, ctx *app.RequestContext) {
	zoneID := string(ctx.Param("zone_id"))
	fromTick, _ := strconv.ParseInt(string(ctx.Query("from_tick")), 10, 64)
	toTick, _ := strconv.ParseInt(string(ctx.Query("to_tick")), 10, 64)
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))

	resp, err := h.ReplayUC.Execute(c, replay.Request{
		ZoneID:   zoneID,
		FromTick: fromTick,
		ToTick:   toTick,
		Limit:    limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) zoneStatus(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{ZoneID: string(ctx.Param("zone_id"))})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) catalogGoods(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"goods": h.CatalogUC.Goods()})
}

func (h Handler) catalogGood(_ context.Context, ctx *app.RequestContext) {
	good, err := h.CatalogUC.Good(string(ctx.Param("name")))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, good)
}

func (h Handler) catalogMonsterTypes(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]any{"monster_types": h.CatalogUC.MonsterTypes()})
}

func (h Handler) catalogSkills(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.CatalogUC.Skills())
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type zoneEntityLister interface {
	ListByZone(ctx context.Context, zoneID string) ([]forge.Record, error)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingPlayerIDHeader = errors.New("missing x-player-id header")
var ErrMissingPlayerKeyHeader = errors.New("missing x-player-key header")
var ErrMissingPlayerCredentials = errors.New("missing player credentials")

func (h Handler) requireAuthenticatedPlayer(c context.Context, ctx *app.RequestContext) (string, error) {
	playerID := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	playerKey := strings.TrimSpace(string(ctx.GetHeader(playerKeyHeader)))
	if playerID == "" && playerKey == "" {
		return "", ErrMissingPlayerCredentials
	}
	if playerID == "" {
		return "", ErrMissingPlayerIDHeader
	}
	if playerKey == "" {
		return "", ErrMissingPlayerKeyHeader
	}
	if err := h.AuthUC.Execute(c, auth.VerifyRequest{
		PlayerID:  playerID,
		PlayerKey: playerKey,
	}); err != nil {
		return "", err
	}
	return playerID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingPlayerCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_credentials", err.Error())
	case errors.Is(err, ErrMissingPlayerIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error())
	case errors.Is(err, ErrMissingPlayerKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_key", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_player_credentials", err.Error())
	case errors.Is(err, intake.ErrInvalidIntent):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_intent", err.Error())
	case errors.Is(err, catalog.ErrUnknownGood):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_good", err.Error())
	case errors.Is(err, intake.ErrPlayerRequired),
		errors.Is(err, intake.ErrZoneRequired),
		errors.Is(err, observe.ErrPlayerRequired),
		errors.Is(err, observe.ErrZoneRequired),
		errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
