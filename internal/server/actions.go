package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"guardians/internal/domain"
	"guardians/internal/engine"
	"guardians/internal/events"
)

func registerActions(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "assign-guardian",
		Method:        http.MethodPost,
		Path:          "/guardians/{id}/assignments",
		Summary:       "Assign a guardian to a guild",
		Tags:          []string{"Guardians"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body AssignmentRequest
	}) (*itemOutput[AssignmentResponse], error) {
		g, err := e.AssignGuardian(ctx, input.ID, input.Body.GuildID, input.Body.Role)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[AssignmentResponse]{Body: AssignmentResponse{Message: engine.MessageAssigned, Guardian: g}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-boss-status",
		Method:      http.MethodPost,
		Path:        "/bosses/{id}/status",
		Summary:     "Change boss status",
		Tags:        []string{"Bosses"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body BossStatusRequest
	}) (*itemOutput[domain.Boss], error) {
		b, err := e.SetBossStatus(ctx, input.ID, input.Body.Status)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[domain.Boss]{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-arsenal-weapon",
		Method:        http.MethodPost,
		Path:          "/arsenals/{id}/weapons",
		Summary:       "Add a weapon to an arsenal",
		Tags:          []string{"Arsenals"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body ArsenalWeaponRequest
	}) (*itemOutput[domain.Arsenal], error) {
		a, err := e.AddArsenalWeapon(ctx, input.ID, input.Body.WeaponID)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[domain.Arsenal]{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "remove-arsenal-weapon",
		Method:        http.MethodDelete,
		Path:          "/arsenals/{id}/weapons/{weaponId}",
		Summary:       "Remove a weapon from an arsenal",
		Tags:          []string{"Arsenals"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID       string `path:"id"`
		WeaponID string `path:"weaponId"`
	}) (*struct{}, error) {
		if _, err := e.RemoveArsenalWeapon(ctx, input.ID, input.WeaponID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "run-weapon",
		Method:        http.MethodPost,
		Path:          "/weapons/{id}/run",
		Summary:       "Run a weapon",
		Tags:          []string{"Weapons"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body *RunWeaponRequest
	}) (*itemOutput[domain.Execution], error) {
		var target string
		if input.Body != nil {
			target = input.Body.Target
		}
		exec, err := e.RunWeapon(ctx, input.ID, target)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[domain.Execution]{Body: exec}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "trigger-campaign",
		Method:        http.MethodPost,
		Path:          "/campaigns/{id}/run",
		Summary:       "Trigger a campaign",
		Tags:          []string{"Campaigns"},
		DefaultStatus: http.StatusAccepted,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*itemOutput[TriggerResponse], error) {
		c, err := e.TriggerCampaign(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[TriggerResponse]{Body: TriggerResponse{Message: engine.MessageTriggered, Campaign: c}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "heal-wound",
		Method:      http.MethodPost,
		Path:        "/wounds/{id}/heal",
		Summary:     "Heal a wound",
		Description: "Healing an already healed wound keeps its original healedAt.",
		Tags:        []string{"Wounds"},
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *idPath) (*itemOutput[domain.Wound], error) {
		w, err := e.HealWound(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[domain.Wound]{Body: w}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-battle",
		Method:      http.MethodPost,
		Path:        "/battles/{id}/resolve",
		Summary:     "Resolve a battle",
		Tags:        []string{"Battles"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body ResolveBattleRequest
	}) (*itemOutput[domain.Battle], error) {
		b, err := e.ResolveBattle(ctx, input.ID, input.Body.Outcome, input.Body.Notes)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[domain.Battle]{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "predict-oracle",
		Method:      http.MethodPost,
		Path:        "/oracles/{id}/predict",
		Summary:     "Ask an oracle for a prophecy",
		Tags:        []string{"Oracles"},
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body *PredictRequest
	}) (*itemOutput[domain.Oracle], error) {
		var prophecy string
		if input.Body != nil {
			prophecy = input.Body.Prophecy
		}
		o, err := e.PredictOracle(ctx, input.ID, prophecy)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[domain.Oracle]{Body: o}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-relic-url",
		Method:      http.MethodPost,
		Path:        "/relics/{id}/url",
		Summary:     "Attach a url to a relic",
		Tags:        []string{"Relics"},
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body RelicURLRequest
	}) (*itemOutput[domain.Relic], error) {
		r, err := e.SetRelicURL(ctx, input.ID, input.Body.URL)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[domain.Relic]{Body: r}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-alliance-member",
		Method:        http.MethodPost,
		Path:          "/alliances/{id}/members",
		Summary:       "Add a guild to an alliance",
		Tags:          []string{"Alliances"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string `path:"id"`
		Body AllianceMemberRequest
	}) (*itemOutput[domain.Alliance], error) {
		a, err := e.AddAllianceGuild(ctx, input.ID, input.Body.GuildID)
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[domain.Alliance]{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "remove-alliance-member",
		Method:        http.MethodDelete,
		Path:          "/alliances/{id}/members/{guildId}",
		Summary:       "Remove a guild from an alliance",
		Tags:          []string{"Alliances"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID      string `path:"id"`
		GuildID string `path:"guildId"`
	}) (*struct{}, error) {
		if _, err := e.RemoveAllianceGuild(ctx, input.ID, input.GuildID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerChronicle(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-chronicle",
		Method:      http.MethodGet,
		Path:        "/chronicle",
		Summary:     "List recent mutation events",
		Tags:        []string{"Meta"},
	}, func(ctx context.Context, input *struct {
		Type       string `query:"type" example:"wound.healed"`
		EntityKind string `query:"entityKind" example:"wound"`
		EntityID   string `query:"entityId"`
		Limit      int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
	}) (*itemOutput[ChronicleResponse], error) {
		items, err := e.Chronicle.List(ctx, events.Filter{
			Type:       input.Type,
			EntityKind: input.EntityKind,
			EntityID:   input.EntityID,
			Limit:      input.Limit,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &itemOutput[ChronicleResponse]{Body: ChronicleResponse{Items: items}}, nil
	})
}
