// Package v1alpha1 handles the expedition grpc service interface
package v1alpha1

import (
	"context"
	"log/slog"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/expedition-api/internal/entities"
	"github.com/KirkDiggler/expedition-api/internal/errors"
	"github.com/KirkDiggler/expedition-api/internal/orchestrators/encounter"
	"github.com/KirkDiggler/expedition-api/internal/orchestrators/expedition"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	ExpeditionService expedition.Service
	EncounterService  encounter.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.ExpeditionService == nil {
		vb.RequiredField("ExpeditionService")
	}
	if c.EncounterService == nil {
		vb.RequiredField("EncounterService")
	}
	return vb.Build()
}

// Handler implements the expedition gRPC service
type Handler struct {
	expeditions expedition.Service
	encounters  encounter.Service
}

var _ ExpeditionServiceServer = (*Handler)(nil)

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		expeditions: cfg.ExpeditionService,
		encounters:  cfg.EncounterService,
	}, nil
}

// StartExpedition dispatches a player on an expedition
func (h *Handler) StartExpedition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	vb := errors.NewValidationBuilder()
	playerID := field(req, "player_id")
	templateID := field(req, "template_id")
	errors.ValidateRequired("player_id", playerID, vb)
	errors.ValidateRequired("template_id", templateID, vb)
	if err := vb.Build(); err != nil {
		return failure(err)
	}

	out, err := h.expeditions.Start(ctx, &expedition.StartInput{
		PlayerID:          playerID,
		TemplateID:        templateID,
		SelectedResources: list(req, "selected_resources"),
	})
	if err != nil {
		return failure(err)
	}

	message := "expedition started"
	if out.Expedition.TemplateSource == entities.TemplateSourceDefault {
		message = "expedition started with the default template"
	}
	return success(map[string]any{
		"expedition": out.Expedition,
		"player":     out.Player,
	}, message)
}

// UpdateExpeditionProgress recomputes an expedition against the clock
func (h *Handler) UpdateExpeditionProgress(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := field(req, "expedition_id")
	if id == "" {
		return failure(errors.InvalidArgument("expedition_id is required"))
	}

	out, err := h.expeditions.UpdateProgress(ctx, &expedition.UpdateProgressInput{ExpeditionID: id})
	if err != nil {
		return failure(err)
	}
	return success(map[string]any{
		"expedition": out.Expedition,
		"changed":    out.Changed,
	}, "")
}

// CompleteExpedition finalizes an expedition and grants its rewards
func (h *Handler) CompleteExpedition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := field(req, "expedition_id")
	if id == "" {
		return failure(errors.InvalidArgument("expedition_id is required"))
	}

	out, err := h.expeditions.Complete(ctx, &expedition.CompleteInput{ExpeditionID: id})
	if err != nil {
		return failure(err)
	}
	return success(map[string]any{
		"expedition": out.Expedition,
		"rewards":    out.Expedition.Rewards,
	}, "expedition completed")
}

// CancelExpedition abandons an expedition without rewards
func (h *Handler) CancelExpedition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := field(req, "expedition_id")
	if id == "" {
		return failure(errors.InvalidArgument("expedition_id is required"))
	}

	out, err := h.expeditions.Cancel(ctx, &expedition.CancelInput{
		ExpeditionID: id,
		Reason:       entities.CancelReason(field(req, "reason")),
	})
	if err != nil {
		return failure(err)
	}
	return success(map[string]any{"expedition": out.Expedition}, "expedition cancelled")
}

// GetExpedition reads an expedition by id, or the player's active one
func (h *Handler) GetExpedition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := field(req, "expedition_id")
	playerID := field(req, "player_id")

	switch {
	case id != "":
		out, err := h.expeditions.Get(ctx, &expedition.GetInput{ExpeditionID: id})
		if err != nil {
			return failure(err)
		}
		return success(map[string]any{
			"expedition": out.Expedition,
			"archived":   out.Archived,
		}, "")
	case playerID != "":
		out, err := h.expeditions.GetActive(ctx, &expedition.GetActiveInput{PlayerID: playerID})
		if err != nil {
			return failure(err)
		}
		return success(map[string]any{"expedition": out.Expedition}, "")
	default:
		return failure(errors.InvalidArgument("expedition_id or player_id is required"))
	}
}

// ListExpeditionHistory lists a player's live and archived expeditions
func (h *Handler) ListExpeditionHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	playerID := field(req, "player_id")
	if playerID == "" {
		return failure(errors.InvalidArgument("player_id is required"))
	}

	out, err := h.expeditions.ListHistory(ctx, &expedition.ListHistoryInput{
		PlayerID: playerID,
		Limit:    number(req, "limit"),
	})
	if err != nil {
		return failure(err)
	}
	return success(map[string]any{"expeditions": out.Expeditions}, "")
}

// GenerateEncounter rolls for a fight; data is null when nothing appears
func (h *Handler) GenerateEncounter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	vb := errors.NewValidationBuilder()
	playerID := field(req, "player_id")
	biomeID := field(req, "biome_id")
	errors.ValidateRequired("player_id", playerID, vb)
	errors.ValidateRequired("biome_id", biomeID, vb)
	if err := vb.Build(); err != nil {
		return failure(err)
	}

	out, err := h.encounters.Generate(ctx, &encounter.GenerateInput{PlayerID: playerID, BiomeID: biomeID})
	if err != nil {
		return failure(err)
	}
	if out.Encounter == nil {
		return success(nil, "no encounter")
	}
	return success(map[string]any{
		"encounter": out.Encounter,
		"animal":    out.Animal,
	}, "encounter started")
}

// ExecuteCombatAction plays one player action in an encounter
func (h *Handler) ExecuteCombatAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	vb := errors.NewValidationBuilder()
	encounterID := field(req, "encounter_id")
	action := field(req, "action")
	errors.ValidateRequired("encounter_id", encounterID, vb)
	errors.ValidateRequired("action", action, vb)
	if err := vb.Build(); err != nil {
		return failure(err)
	}

	out, err := h.encounters.ExecuteAction(ctx, &encounter.ExecuteActionInput{
		EncounterID: encounterID,
		Action:      action,
	})
	if err != nil {
		return failure(err)
	}

	slog.DebugContext(ctx, "combat action executed",
		"encounter_id", encounterID,
		"action", action,
		"status", out.Encounter.Status)

	return success(map[string]any{
		"encounter":     out.Encounter,
		"player_action": out.PlayerAction,
		"animal_action": out.AnimalAction,
		"rewards":       out.Rewards,
		"discovered":    out.Discovered,
		"player":        out.Player,
	}, string(out.Encounter.Status))
}

// GetEncounter reads an encounter by id
func (h *Handler) GetEncounter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := field(req, "encounter_id")
	if id == "" {
		return failure(errors.InvalidArgument("encounter_id is required"))
	}

	out, err := h.encounters.Get(ctx, &encounter.GetInput{EncounterID: id})
	if err != nil {
		return failure(err)
	}
	return success(map[string]any{
		"encounter": out.Encounter,
		"archived":  out.Archived,
	}, "")
}

func field(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func number(req *structpb.Struct, name string) int {
	return int(req.GetFields()[name].GetNumberValue())
}

func list(req *structpb.Struct, name string) []string {
	values := req.GetFields()[name].GetListValue().GetValues()
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := v.GetStringValue(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
