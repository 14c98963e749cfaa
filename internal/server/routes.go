package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"albastini/internal/database"
	"albastini/internal/protocol"
	"albastini/internal/shared"
)

// SnapshotReader reads saved deck snapshots.
type SnapshotReader interface {
	GetAll() ([]database.Snapshot, error)
	GetByID(id string) (database.Snapshot, error)
	GetByTable(tableCode string) ([]database.Snapshot, error)
}

// SnapshotInfo is the JSON form of a saved deck.
type SnapshotInfo struct {
	ID        string              `json:"id"`
	CreatedAt string              `json:"created_at"`
	TableCode string              `json:"table_code"`
	Cards     []protocol.CardInfo `json:"cards"`
}

func newSnapshotInfo(s database.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		TableCode: s.TableCode,
		Cards:     protocol.NewCardInfos(s.Cards),
	}
}

func newSnapshotInfos(snapshots []database.Snapshot) []SnapshotInfo {
	out := make([]SnapshotInfo, len(snapshots))
	for i, s := range snapshots {
		out[i] = newSnapshotInfo(s)
	}
	return out
}

func HandleRoutes(mux *http.ServeMux, db SnapshotReader) {
	mux.HandleFunc("GET /api/cards", GetCardsHandler)
	log.Println("Registered route: /api/cards")

	mux.HandleFunc("GET /api/decks", func(w http.ResponseWriter, r *http.Request) {
		GetDecksHandler(db, w, r)
	})
	log.Println("Registered route: /api/decks")

	mux.HandleFunc("GET /api/decks/{id}", func(w http.ResponseWriter, r *http.Request) {
		GetDeckByIDHandler(db, w, r)
	})
	log.Println("Registered route: /api/decks/{id}")

	mux.HandleFunc("GET /api/tables/{code}/decks", func(w http.ResponseWriter, r *http.Request) {
		GetDecksByTableHandler(db, w, r)
	})
	log.Println("Registered route: /api/tables/{code}/decks")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// GetCardsHandler lists every card of a new deck with its image file name.
func GetCardsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, protocol.NewCardInfos(shared.NewDeck().Cards()))
}

func GetDecksHandler(db SnapshotReader, w http.ResponseWriter, r *http.Request) {
	results, err := db.GetAll()
	if err != nil {
		log.Printf("Error fetching decks: %v", err)
		http.Error(w, "Failed to fetch decks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, newSnapshotInfos(results))
}

func GetDeckByIDHandler(db SnapshotReader, w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Deck id is required", http.StatusBadRequest)
		return
	}

	result, err := db.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Deck not found", http.StatusNotFound)
			return
		}
		log.Printf("Error fetching deck %s: %v", id, err)
		http.Error(w, "Failed to fetch deck", http.StatusInternalServerError)
		return
	}
	writeJSON(w, newSnapshotInfo(result))
}

func GetDecksByTableHandler(db SnapshotReader, w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		http.Error(w, "Table code is required", http.StatusBadRequest)
		return
	}

	results, err := db.GetByTable(code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No decks found for table", http.StatusNotFound)
			return
		}
		log.Printf("Error fetching decks of table %s: %v", code, err)
		http.Error(w, "Failed to fetch decks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, newSnapshotInfos(results))
}
