package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpserver-go/internal/api/middleware"
	"github.com/mcoot/rpserver-go/internal/api/request"
	"github.com/mcoot/rpserver-go/internal/api/response"
	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/presence"
	"github.com/mcoot/rpserver-go/internal/services/dispatch"
	"github.com/mcoot/rpserver-go/internal/services/session"
)

// Characters is the part of the session manager the admin API drives
type Characters interface {
	Lookup(id model.CharacterID) session.Lookup
	GetCharacterWithName(fullName string) *model.Character
	GetCharacterWithPhoneNumber(number string) *model.Character
	UpdateMoneyForCharacterWithID(ctx context.Context, id model.CharacterID, money int) error
	AddMoneyForCharacterWithID(ctx context.Context, id model.CharacterID, amount int) (int, error)
	UpdateJobForCharacterWithID(ctx context.Context, id model.CharacterID, job model.JobID) error
	SendNotificationToCharacterWithID(id model.CharacterID, message string) bool
}

// RecordReader loads characters that are not in play
type RecordReader interface {
	GetCharacter(ctx context.Context, id model.CharacterID) (*model.CharacterRecord, error)
}

// CharacterHandler handles character endpoints. Every call runs on the
// dispatch loop.
type CharacterHandler struct {
	characters Characters
	records    RecordReader
	loop       *dispatch.Loop
	logger     *slog.Logger
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(characters Characters, records RecordReader, loop *dispatch.Loop, logger *slog.Logger) *CharacterHandler {
	return &CharacterHandler{
		characters: characters,
		records:    records,
		loop:       loop,
		logger:     logger.With(slog.String("component", "admin")),
	}
}

// audit records a successful change made by the calling admin
func (h *CharacterHandler) audit(r *http.Request, action string, id model.CharacterID, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("action", action), slog.Int64("character_id", int64(id)))
	if c := middleware.GetClaims(r.Context()); c != nil {
		attrs = append(attrs, slog.Int64("admin_id", int64(c.AccountID)), slog.String("admin", c.Name))
	}
	h.logger.LogAttrs(r.Context(), slog.LevelInfo, "admin action", attrs...)
}

// Get handles GET /api/v1/characters/{id}
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(w, r)
	if !ok {
		return
	}

	var out response.Character
	err := h.loop.Do(r.Context(), "admin.get_character", func(ctx context.Context) error {
		l := h.characters.Lookup(id)
		if l.Location == session.Active {
			out = response.CharacterFromModel(l.Character)
			return nil
		}
		rec, err := h.records.GetCharacter(ctx, id)
		if err != nil {
			return err
		}
		out = response.CharacterFromRecord(*rec, false)
		return nil
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, out)
}

// GetByName handles GET /api/v1/characters/by-name/{name}
func (h *CharacterHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	h.writeActive(w, r, "admin.get_character_by_name", func() *model.Character {
		return h.characters.GetCharacterWithName(name)
	})
}

// GetByNumber handles GET /api/v1/characters/by-number/{number}
func (h *CharacterHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]
	h.writeActive(w, r, "admin.get_character_by_number", func() *model.Character {
		return h.characters.GetCharacterWithPhoneNumber(number)
	})
}

// writeActive writes the character find returns. Name and number lookups
// only cover characters in play.
func (h *CharacterHandler) writeActive(w http.ResponseWriter, r *http.Request, name string, find func() *model.Character) {
	var out response.Character
	err := h.loop.Do(r.Context(), name, func(context.Context) error {
		c := find()
		if c == nil {
			return presence.ErrNotOnline
		}
		out = response.CharacterFromModel(c)
		return nil
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, out)
}

// SetMoney handles PUT /api/v1/characters/{id}/money
func (h *CharacterHandler) SetMoney(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(w, r)
	if !ok {
		return
	}
	var req request.SetMoneyRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.loop.Do(r.Context(), "admin.set_money", func(ctx context.Context) error {
		return h.characters.UpdateMoneyForCharacterWithID(ctx, id, *req.Money)
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	h.audit(r, "set_money", id, slog.Int("money", *req.Money))
	response.JSON(w, http.StatusOK, response.MoneyResponse{CharacterID: int64(id), Money: *req.Money})
}

// AddMoney handles POST /api/v1/characters/{id}/money/add
func (h *CharacterHandler) AddMoney(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(w, r)
	if !ok {
		return
	}
	var req request.AddMoneyRequest
	if !decode(w, r, &req) {
		return
	}

	var money int
	err := h.loop.Do(r.Context(), "admin.add_money", func(ctx context.Context) error {
		var err error
		money, err = h.characters.AddMoneyForCharacterWithID(ctx, id, *req.Amount)
		return err
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	h.audit(r, "add_money", id, slog.Int("amount", *req.Amount), slog.Int("money", money))
	response.JSON(w, http.StatusOK, response.MoneyResponse{CharacterID: int64(id), Money: money})
}

// SetJob handles PUT /api/v1/characters/{id}/job
func (h *CharacterHandler) SetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(w, r)
	if !ok {
		return
	}
	var req request.SetJobRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.loop.Do(r.Context(), "admin.set_job", func(ctx context.Context) error {
		return h.characters.UpdateJobForCharacterWithID(ctx, id, model.JobID(*req.Job))
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	h.audit(r, "set_job", id, slog.Int("job", *req.Job))
	response.NoContent(w)
}

// Notify handles POST /api/v1/characters/{id}/notify
func (h *CharacterHandler) Notify(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(w, r)
	if !ok {
		return
	}
	var req request.NotifyRequest
	if !decode(w, r, &req) {
		return
	}

	var delivered bool
	err := h.loop.Do(r.Context(), "admin.notify", func(context.Context) error {
		delivered = h.characters.SendNotificationToCharacterWithID(id, req.Message)
		return nil
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	h.audit(r, "notify", id, slog.Bool("delivered", delivered))
	response.JSON(w, http.StatusOK, response.NotifyResponse{Delivered: delivered})
}
