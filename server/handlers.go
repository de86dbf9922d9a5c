package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/montrey/shelf/search"
	"github.com/montrey/shelf/store"
)

// maxBookmarkBody caps the size of a bookmark's query string.
const maxBookmarkBody = 8 << 10

type errorResponse struct {
	Error string `json:"error"`
}

type searchResponse struct {
	State  string        `json:"state"`
	Result search.Result `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"products": s.Engine().Len(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	engine := s.Engine()
	state := engine.Codec().DecodeValues(r.URL.Query())
	result := engine.Search(state)

	if q := state.Query(); q != "" && s.history != nil {
		if err := s.history.Record(q, result.Total); err != nil {
			s.logger.Warn("failed to record search history", "query", q, "error", err)
		}
	}

	sendJSON(w, http.StatusOK, searchResponse{
		State:  engine.Codec().Encode(state),
		Result: result,
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			sendError(w, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	var history []search.HistoryItem
	if s.history != nil {
		history = s.history.List()
	}
	entries := s.Engine().Dropdown(q.Get("q"), history, limit)
	sendJSON(w, http.StatusOK, entries)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.Engine().Facets())
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, ok := s.Engine().Product(id)
	if !ok {
		sendError(w, http.StatusNotFound, errors.New("product not found"))
		return
	}
	sendJSON(w, http.StatusOK, p)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	items := []search.HistoryItem{}
	if s.history != nil {
		items = s.history.List()
	}
	sendJSON(w, http.StatusOK, items)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if s.history != nil {
		if err := s.history.Clear(); err != nil {
			sendError(w, http.StatusInternalServerError, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveHistory(w http.ResponseWriter, r *http.Request) {
	if s.history != nil {
		if err := s.history.Remove(mux.Vars(r)["query"]); err != nil {
			sendError(w, http.StatusInternalServerError, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := store.ListBookmarks(s.db)
	if err != nil {
		sendError(w, http.StatusInternalServerError, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []store.Bookmark{}
	}
	sendJSON(w, http.StatusOK, bookmarks)
}

func (s *Server) handleSaveBookmark(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBookmarkBody+1))
	if err != nil {
		sendError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) > maxBookmarkBody {
		sendError(w, http.StatusRequestEntityTooLarge, errors.New("bookmark state too large"))
		return
	}

	// Store the canonical form so equal searches compare equal.
	codec := s.Engine().Codec()
	state := codec.Encode(codec.Decode(string(body)))
	if err := store.SaveBookmark(s.db, name, state); err != nil {
		sendError(w, http.StatusInternalServerError, err)
		return
	}

	b, err := store.GetBookmark(s.db, name)
	if err != nil {
		sendError(w, http.StatusInternalServerError, err)
		return
	}
	sendJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	err := store.DeleteBookmark(s.db, mux.Vars(r)["name"])
	if errors.Is(err, store.ErrBookmarkNotFound) {
		sendError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		sendError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, err error) {
	sendJSON(w, status, errorResponse{Error: err.Error()})
}
