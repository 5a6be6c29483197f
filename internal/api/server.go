// Package api serves a generated map over HTTP: tiles, regions, path
// queries, and the interactive selection/highlight state. A websocket at
// /api/v1/ws drives selection and hover highlighting for live renderers.
package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talgya/hexworld/internal/hexgrid"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// Server serves one map over HTTP.
type Server struct {
	Map       *world.Map
	DB        *persistence.DB // run catalog; nil disables /runs
	Port      int
	PathLimit int // path queries per minute per IP; 0 disables limiting

	// Guards Map, which is not safe for concurrent use. Selection and
	// highlight state is shared by every client.
	mu sync.Mutex

	httpSrv *http.Server
	limiter *RateLimiter
	origins map[string]bool // browser origins allowed by CORS and the websocket
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "path_limit", s.PathLimit, "runs", s.DB != nil)

	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the HTTP server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Handler builds the router. Start uses it; tests mount it on httptest.
func (s *Server) Handler() http.Handler {
	if s.PathLimit > 0 && s.limiter == nil {
		s.limiter = NewRateLimiter(s.PathLimit, time.Minute)
	}
	s.origins = allowedOrigins()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(s.corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/map", s.handleMap)
		r.Get("/map/{x}/{y}", s.handleHex)
		r.Get("/regions", s.handleRegions)
		r.Get("/terrain", s.handleTerrain)
		r.Get("/hex-at", s.handleHexAt)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
		r.Get("/selection", s.handleSelection)
		r.Post("/selection", s.handleSelect)
		r.Get("/ws", s.handleWS)

		// Path planning is the only expensive query.
		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(s.limiter.Middleware)
			}
			r.Get("/path", s.handlePath)
			r.Post("/highlight", s.handleHighlight)
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "elapsed", time.Since(start))
	})
}

// allowedOrigins returns the frontend origins allowed to call the API.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func allowedOrigins() map[string]bool {
	origins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins[origin] = true
			}
		}
	}
	return origins
}

// corsMiddleware adds CORS headers for allowed frontend origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.origins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m := s.Map
	status := map[string]any{
		"map":           m.String(),
		"seed":          m.Seed(),
		"width":         m.Grid().Width(),
		"height":        m.Grid().Height(),
		"regions":       m.NumRegions(),
		"empty_regions": len(m.EmptyRegions()),
		"walkable":      m.WalkableCount(),
		"obstacles":     len(m.Obstacles()),
		"region_edges":  m.RegionGraph().Edges(),
		"walk_edges":    m.WalkableGraph().Edges(),
		"selected":      pointOrNil(m.Selection()),
		"highlighted":   len(m.HighlightedPath()),
		"stats":         m.Stats,
	}
	s.mu.Unlock()

	writeJSON(w, status)
}

type tile struct {
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Terrain  world.Terrain `json:"terrain"`
	Obstacle bool          `json:"obstacle"`
	Region   int           `json:"region"` // -1 on the border ring
	Border   bool          `json:"border,omitempty"`
}

// handleMap returns every tile a renderer draws, border ring included, in
// border grid order.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m := s.Map
	bg := m.BorderGrid()
	tiles := make([]tile, 0, bg.Size())
	for i := 0; i < bg.Size(); i++ {
		p := bg.HexFromIndex(i).Sub(hexgrid.Point{X: 1, Y: 1})
		region := m.RegionAt(p)
		tiles = append(tiles, tile{
			X:        p.X,
			Y:        p.Y,
			Terrain:  m.TerrainAt(p),
			Obstacle: m.IsObstacle(p),
			Region:   region,
			Border:   region < 0,
		})
	}
	layout := m.Layout()
	pw, ph := layout.MapPixelSize(m.Grid())
	resp := map[string]any{
		"width":        m.Grid().Width(),
		"height":       m.Grid().Height(),
		"hex_size":     layout.HexSize,
		"pixel_width":  pw,
		"pixel_height": ph,
		"tiles":        tiles,
	}
	s.mu.Unlock()

	writeJSON(w, resp)
}

func (s *Server) handleHex(w http.ResponseWriter, r *http.Request) {
	x, err1 := strconv.Atoi(chi.URLParam(r, "x"))
	y, err2 := strconv.Atoi(chi.URLParam(r, "y"))
	if err1 != nil || err2 != nil {
		respondError(w, http.StatusBadRequest, "invalid coordinates")
		return
	}
	p := hexgrid.Point{X: x, Y: y}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.Map
	g := m.Grid()
	if g.OffGrid(p) {
		respondError(w, http.StatusNotFound, "hex not found")
		return
	}

	edges := make(map[string]world.Terrain)
	for _, d := range hexgrid.Directions {
		if t := m.EdgeTransition(p, d); t != world.TerrainNone {
			edges[d.String()] = t
		}
	}
	px, py := m.Layout().CenterOf(p)

	writeJSON(w, map[string]any{
		"x":         p.X,
		"y":         p.Y,
		"index":     g.Index(p),
		"region":    m.RegionAt(p),
		"terrain":   m.TerrainAt(p),
		"obstacle":  m.IsObstacle(p),
		"walkable":  m.IsWalkable(p),
		"pixel":     map[string]int{"x": px, "y": py},
		"edges":     edges,
		"neighbors": g.HexNeighbors(p),
	})
}

type regionInfo struct {
	ID            int            `json:"id"`
	Center        *hexgrid.Point `json:"center"` // null once absorbed
	Size          int            `json:"size"`
	Terrain       world.Terrain  `json:"terrain"`
	Neighbors     []int          `json:"neighbors"`
	WalkNeighbors []int          `json:"walk_neighbors"`
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m := s.Map
	sizes := m.RegionSizes()
	regions := make([]regionInfo, m.NumRegions())
	for id := range regions {
		regions[id] = regionInfo{
			ID:            id,
			Center:        pointOrNil(m.RegionCenter(id)),
			Size:          sizes[id],
			Terrain:       m.RegionTerrain(id),
			Neighbors:     m.RegionGraph().Neighbors(id),
			WalkNeighbors: m.WalkableGraph().Neighbors(id),
		}
	}
	s.mu.Unlock()

	writeJSON(w, map[string]any{"count": len(regions), "regions": regions})
}

// handleTerrain returns the terrain names and the edge transition table
// renderers use to pick overlays. transitions[from][to] is the overlay drawn
// on a from tile; identical pairs are omitted.
func (s *Server) handleTerrain(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, world.NumTerrains)
	transitions := make(map[string]map[string]world.Terrain, world.NumTerrains)
	for _, from := range world.Terrains {
		names = append(names, from.String())
		row := make(map[string]world.Terrain, world.NumTerrains-1)
		for _, to := range world.Terrains {
			if t := world.EdgeTransition(from, to); t != world.TerrainNone {
				row[to.String()] = t
			}
		}
		transitions[from.String()] = row
	}

	writeJSON(w, map[string]any{"terrains": names, "transitions": transitions})
}

func (s *Server) handleHexAt(w http.ResponseWriter, r *http.Request) {
	px, err1 := strconv.Atoi(r.URL.Query().Get("px"))
	py, err2 := strconv.Atoi(r.URL.Query().Get("py"))
	if err1 != nil || err2 != nil {
		respondError(w, http.StatusBadRequest, "usage: /api/v1/hex-at?px=N&py=N")
		return
	}

	s.mu.Lock()
	p := s.Map.Layout().HexAtPixel(px, py)
	onGrid := !s.Map.Grid().OffGrid(p)
	s.mu.Unlock()

	writeJSON(w, map[string]any{"hex": pointOrNil(p), "on_grid": onGrid})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		respondError(w, http.StatusServiceUnavailable, "run catalog disabled")
		return
	}

	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		slog.Error("list runs", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, map[string]any{"runs": runs})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		respondError(w, http.StatusServiceUnavailable, "run catalog disabled")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := s.DB.GetRun(id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		slog.Error("get run", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	writeJSON(w, run)
}

type pathResponse struct {
	From    hexgrid.Point   `json:"from"`
	To      hexgrid.Point   `json:"to"`
	Found   bool            `json:"found"`
	Steps   int             `json:"steps"`
	Hexes   []hexgrid.Point `json:"hexes"`
	Regions []int           `json:"regions"`
}

// handlePath plans a route without touching the shared highlight.
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	from, err := parsePoint(r.URL.Query().Get("from"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	to, err := parsePoint(r.URL.Query().Get("to"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "to: "+err.Error())
		return
	}

	start := time.Now()
	s.mu.Lock()
	m := s.Map
	if m.Grid().OffGrid(from) || m.Grid().OffGrid(to) {
		s.mu.Unlock()
		respondError(w, http.StatusBadRequest, "hex off grid")
		return
	}
	blocked := !m.IsWalkable(from) || !m.IsWalkable(to)
	path := m.FindPath(m.Grid().Index(from), m.Grid().Index(to))
	resp := newPathResponse(m, from, to, path)
	s.mu.Unlock()

	observePath(start, path, blocked)
	writeJSON(w, resp)
}

type highlightRequest struct {
	From *hexgrid.Point `json:"from"` // omitted: route from the selected hex
	To   *hexgrid.Point `json:"to"`
}

// handleHighlight stores a route as the shared highlighted path.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.To == nil {
		respondError(w, http.StatusBadRequest, `body must be {"from":{"x":N,"y":N},"to":{"x":N,"y":N}}`)
		return
	}

	start := time.Now()
	s.mu.Lock()
	m := s.Map
	from := m.Selection()
	if req.From != nil {
		from = *req.From
	}
	blocked := !m.IsWalkable(from) || !m.IsWalkable(*req.To)
	var path []int
	if req.From == nil {
		path = m.HoverHex(*req.To)
	} else {
		path = m.HighlightPath(from, *req.To)
	}
	resp := newPathResponse(m, from, *req.To, path)
	s.mu.Unlock()

	observePath(start, path, blocked)
	writeJSON(w, resp)
}

type selectionResponse struct {
	Selected    *hexgrid.Point  `json:"selected"`
	Highlighted []hexgrid.Point `json:"highlighted"`
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.selectionLocked()
	s.mu.Unlock()
	writeJSON(w, resp)
}

// handleSelect selects the posted hex. An off-grid hex clears the selection.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var p hexgrid.Point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, `body must be {"x":N,"y":N}`)
		return
	}

	s.mu.Lock()
	s.Map.SelectHex(p)
	resp := s.selectionLocked()
	s.mu.Unlock()
	writeJSON(w, resp)
}

func (s *Server) selectionLocked() selectionResponse {
	return selectionResponse{
		Selected:    pointOrNil(s.Map.Selection()),
		Highlighted: s.Map.HighlightedHexes(),
	}
}

func newPathResponse(m *world.Map, from, to hexgrid.Point, path []int) pathResponse {
	g := m.Grid()
	hexes := make([]hexgrid.Point, len(path))
	for i, n := range path {
		hexes[i] = g.HexFromIndex(n)
	}
	resp := pathResponse{
		From:    from,
		To:      to,
		Found:   len(path) > 0,
		Hexes:   hexes,
		Regions: []int{},
	}
	if resp.Found {
		resp.Steps = len(path) - 1
		if chain := m.RegionPath(m.RegionAt(from), m.RegionAt(to)); chain != nil {
			resp.Regions = chain
		}
	}
	return resp
}

// parsePoint parses "x,y".
func parsePoint(s string) (hexgrid.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return hexgrid.Invalid, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return hexgrid.Invalid, fmt.Errorf("bad x %q", xs)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return hexgrid.Invalid, fmt.Errorf("bad y %q", ys)
	}
	return hexgrid.Point{X: x, Y: y}, nil
}

func pointOrNil(p hexgrid.Point) *hexgrid.Point {
	if p == hexgrid.Invalid {
		return nil
	}
	return &p
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
