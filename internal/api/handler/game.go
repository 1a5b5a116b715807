package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mkarsten/tablehost/internal/api/apierr"
	"github.com/mkarsten/tablehost/internal/api/middleware"
	"github.com/mkarsten/tablehost/internal/api/request"
	"github.com/mkarsten/tablehost/internal/api/response"
	"github.com/mkarsten/tablehost/internal/model"
	"github.com/mkarsten/tablehost/internal/services/game"

	"github.com/gorilla/mux"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameService *game.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameService *game.Service) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// Create handles POST /api/v1/games
// The authenticated user becomes the game's master.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	u := middleware.MustGetUser(r.Context())

	id, err := h.gameService.CreateGame(r.Context(), game.CreateGame{
		Name:           req.Name,
		Description:    req.Description,
		MaximumPlayers: req.MaximumPlayers,
		MasterID:       u.ID,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateGameResponse{GameID: int64(id)})
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDVar(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.gameService.GetGame(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// FindRecruiting handles GET /api/v1/games/recruiting?name=...
func (h *GameHandler) FindRecruiting(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}

	g, err := h.gameService.FindRecruitingGameByName(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// FindArchived handles GET /api/v1/games/archived?name=...
func (h *GameHandler) FindArchived(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}

	g, err := h.gameService.FindArchivedGameByName(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Rename handles PATCH /api/v1/games/{id}
func (h *GameHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDVar(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.RenameGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.requireMaster(r, id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.gameService.RenameGame(r.Context(), id, req.Name); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Start handles POST /api/v1/games/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDVar(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.requireMaster(r, id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.gameService.StartGame(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Archive handles POST /api/v1/games/{id}/archive
func (h *GameHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDVar(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.requireMaster(r, id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.gameService.ArchiveGame(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// requireMaster ensures the authenticated user is the game's master or an
// administrator.
func (h *GameHandler) requireMaster(r *http.Request, id model.GameID) error {
	u := middleware.MustGetUser(r.Context())
	if u.Administrator {
		return nil
	}

	g, err := h.gameService.GetGame(r.Context(), id)
	if err != nil {
		return err
	}
	if g.MasterID != u.ID {
		return apierr.NewForbiddenError("Only the game master can perform this action")
	}
	return nil
}

// gameIDVar parses the {id} route variable
func gameIDVar(r *http.Request) (model.GameID, error) {
	raw := mux.Vars(r)["id"]
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierr.NewInvalidRequestError("invalid game id")
	}
	id, err := model.NewGameID(n)
	if err != nil {
		return 0, apierr.NewInvalidRequestError("invalid game id")
	}
	return id, nil
}
