package web

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

// DungeonInfo is the GET /api/dungeon response.
type DungeonInfo struct {
	Size         int     `json:"size"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Tiles        int     `json:"tiles"`
	MaxDimension float64 `json:"max_dimension"`
	Seed         int64   `json:"seed"`
	Collision    string  `json:"collision"`
}

// TilesResponse lists tiles, optionally with a running seen count.
type TilesResponse struct {
	Tiles []dungeon.Tile `json:"tiles"`
	Seen  int            `json:"seen,omitempty"`
}

// CollideResponse is the GET /api/collide response.
type CollideResponse struct {
	Hit bool `json:"hit"`
}

func (s *Server) info() DungeonInfo {
	return DungeonInfo{
		Size:         s.dungeon.Size(),
		Width:        s.dungeon.Width(),
		Height:       s.dungeon.Height(),
		Tiles:        s.dungeon.Len(),
		MaxDimension: s.dungeon.MaxDimension(),
		Seed:         s.dungeon.Seed(),
		Collision:    string(s.collider.Mode()),
	}
}

// getDungeon handles GET /api/dungeon.
func (s *Server) getDungeon(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.info())
}

// regenerate handles POST /api/dungeon/regenerate?seed=. A missing seed picks
// one from the clock.
func (s *Server) regenerate(w http.ResponseWriter, r *http.Request) {
	seed := time.Now().UnixNano()
	if raw := r.URL.Query().Get("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid seed")
			return
		}
		seed = v
	}

	s.dungeon.Generate(r.Context(), seed)
	s.logger.Info("dungeon regenerated", "seed", seed)
	s.respondJSON(w, http.StatusOK, s.info())
}

// getVisible handles GET /api/visible?x=&y=.
func (s *Server) getVisible(w http.ResponseWriter, r *http.Request) {
	x, err := floatParam(r, "x")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := floatParam(r, "y")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tiles := s.viewport.Visible(s.dungeon, x, y)
	if tiles == nil {
		tiles = []dungeon.Tile{}
	}
	s.respondJSON(w, http.StatusOK, TilesResponse{Tiles: tiles})
}

// getCollide handles GET /api/collide?x=&y=&w=&h=. w and h default to 1.
func (s *Server) getCollide(w http.ResponseWriter, r *http.Request) {
	x, err := floatParam(r, "x")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := floatParam(r, "y")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sizeX, err := intParam(r, "w", 1)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sizeY, err := intParam(r, "h", 1)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, CollideResponse{Hit: s.collider.Check(x, y, sizeX, sizeY)})
}

// getTile handles GET /api/tiles/{id}.
func (s *Server) getTile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid tile id")
		return
	}

	tile, ok := s.dungeon.Tile(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("tile %d not found", id))
		return
	}
	s.respondJSON(w, http.StatusOK, tile)
}

// floatParam parses a required float query parameter.
func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// intParam parses an optional int query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}
