package server

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"albastini/internal/database"
	"albastini/internal/protocol"
	"albastini/internal/shared"

	"github.com/google/uuid"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

const tableCodeLength = 5 // Length of the unique table code

// SnapshotStore persists deck snapshots.
type SnapshotStore interface {
	Insert(database.Snapshot) error
}

// Table is a shared deck that one or more clients look at and reorder.
// Tables are only touched from the hub goroutine.
type Table struct {
	Code    string
	Deck    *shared.Deck
	Clients []*Client
}

// Hub manages active WebSocket connections and deck tables.
type Hub struct {
	clients        map[*Client]bool
	tables         map[string]*Table  // Map table code to table
	clientToTable  map[*Client]string // Map client to table code
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	tableMu        sync.RWMutex
	rng            *rand.Rand
	store          SnapshotStore
}

// NewHub creates a new Hub instance. store may be nil, in which case
// save_deck requests are rejected.
func NewHub(store SnapshotStore) *Hub {
	seed := uint64(time.Now().UnixNano())
	return &Hub{
		clients:        make(map[*Client]bool),
		tables:         make(map[string]*Table),
		clientToTable:  make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rng:            rand.New(rand.NewPCG(seed, seed>>1|1)),
		store:          store,
	}
}

// generateTableCode creates a unique alphanumeric table code.
func (h *Hub) generateTableCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < tableCodeLength; i++ {
			sb.WriteByte(letters[h.rng.IntN(len(letters))])
		}
		code := sb.String()

		h.tableMu.RLock()
		_, exists := h.tables[code]
		h.tableMu.RUnlock()

		if !exists {
			return code
		}
		log.Printf("Generated table code %s collided, retrying...", code)
	}
}

// TableCount returns the number of open tables.
func (h *Hub) TableCount() int {
	h.tableMu.RLock()
	defer h.tableMu.RUnlock()
	return len(h.tables)
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString() // Assign a unique ID upon registration
			log.Printf("Client %s (%s) connected", client.ID, client.remoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

			welcome, _ := protocol.NewMessage("connected", protocol.ClientInfo{ID: client.ID})
			h.sendMessageToClient(client.ID, welcome)

		case client := <-h.unregister:
			h.clientMu.Lock()
			tableCode, atTable := h.clientToTable[client]
			_, clientExists := h.clients[client]
			if clientExists {
				delete(h.clients, client)
				delete(h.clientToTable, client)
				close(client.send)
				log.Printf("Client %s disconnected", client.ID)
			}
			h.clientMu.Unlock()

			if clientExists && atTable {
				h.leaveTable(client, tableCode)
			}

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// leaveTable removes client from a table and deletes the table once empty.
func (h *Hub) leaveTable(client *Client, tableCode string) {
	h.tableMu.Lock()
	table, exists := h.tables[tableCode]
	if !exists {
		h.tableMu.Unlock()
		log.Printf("Client %s disconnected but was mapped to non-existent table %s", client.ID, tableCode)
		return
	}
	remaining := []*Client{}
	for _, c := range table.Clients {
		if c != client {
			remaining = append(remaining, c)
		}
	}
	table.Clients = remaining
	if len(remaining) == 0 {
		delete(h.tables, tableCode)
		h.tableMu.Unlock()
		log.Printf("Client %s left table %s. Table closed.", client.ID, tableCode)
		return
	}
	h.tableMu.Unlock()

	log.Printf("Client %s left table %s.", client.ID, tableCode)
	h.broadcastDeckState(table)
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case "create_table":
		h.handleCreateTable(client)
	case "join_table":
		h.handleJoinTable(client, msg)
	case "shuffle", "sort", "reset", "get_card", "set_card", "sample", "save_deck":
		table, ok := h.tableOf(client)
		if !ok {
			h.sendErrorToClient(client, "Not at a table.")
			return
		}
		h.handleDeckAction(client, table, msg)
	case "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		h.sendMessageToClient(client.ID, pongMsg)
	default:
		log.Printf("Received unknown message type '%s' from client %s", msg.Type, client.ID)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

func (h *Hub) tableOf(client *Client) (*Table, bool) {
	h.clientMu.RLock()
	code, ok := h.clientToTable[client]
	h.clientMu.RUnlock()
	if !ok {
		return nil, false
	}
	h.tableMu.RLock()
	defer h.tableMu.RUnlock()
	table, ok := h.tables[code]
	return table, ok
}

// handleCreateTable opens a new table with a fresh deck.
func (h *Hub) handleCreateTable(client *Client) {
	if _, atTable := h.tableOf(client); atTable {
		log.Printf("Client %s tried to create a table but is already at one.", client.ID)
		h.sendErrorToClient(client, "Already at a table.")
		return
	}

	code := h.generateTableCode()
	table := &Table{Code: code, Deck: shared.NewDeck(), Clients: []*Client{client}}

	h.tableMu.Lock()
	h.tables[code] = table
	h.tableMu.Unlock()

	h.clientMu.Lock()
	h.clientToTable[client] = code
	h.clientMu.Unlock()

	log.Printf("Client %s created table %s", client.ID, code)

	createdMsg, _ := protocol.NewMessage("table_created", protocol.TableCreatedPayload{TableCode: code})
	h.sendMessageToClient(client.ID, createdMsg)
	h.broadcastDeckState(table)
}

// handleJoinTable adds a client to an existing table.
func (h *Hub) handleJoinTable(client *Client, msg protocol.Message) {
	if _, atTable := h.tableOf(client); atTable {
		h.sendJoinError(client, "Already at a table.")
		return
	}

	var payload protocol.JoinTablePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling join_table payload from client %s: %v", client.ID, err)
		h.sendJoinError(client, "Invalid join_table message format.")
		return
	}
	if payload.TableCode == "" {
		h.sendJoinError(client, "Table code cannot be empty.")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(payload.TableCode))

	h.tableMu.Lock()
	table, exists := h.tables[code]
	if !exists {
		h.tableMu.Unlock()
		log.Printf("Client %s tried to join non-existent table %s", client.ID, code)
		h.sendJoinError(client, "Table code not found.")
		return
	}
	table.Clients = append(table.Clients, client)
	h.tableMu.Unlock()

	h.clientMu.Lock()
	h.clientToTable[client] = code
	h.clientMu.Unlock()

	log.Printf("Client %s joined table %s. Clients: %d", client.ID, code, len(table.Clients))
	h.broadcastDeckState(table)
}

// handleDeckAction applies a deck operation requested by a client at table.
func (h *Hub) handleDeckAction(client *Client, table *Table, msg protocol.Message) {
	switch msg.Type {
	case "shuffle":
		table.Deck.Shuffle(h.rng)
		h.broadcastDeckState(table)

	case "sort":
		if err := shared.SortByOrder(table.Deck); err != nil {
			h.sendErrorToClient(client, err.Error())
			return
		}
		h.broadcastDeckState(table)

	case "reset":
		table.Deck = shared.NewDeck()
		h.broadcastDeckState(table)

	case "get_card":
		var payload protocol.GetCardPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendErrorToClient(client, "Invalid get_card message format.")
			return
		}
		card, err := table.Deck.Get(payload.Index)
		if err != nil {
			h.sendErrorToClient(client, err.Error())
			return
		}
		cardMsg, _ := protocol.NewMessage("card", protocol.CardPayload{Index: payload.Index, Card: protocol.NewCardInfo(card)})
		h.sendMessageToClient(client.ID, cardMsg)

	case "set_card":
		var payload protocol.SetCardPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendErrorToClient(client, "Invalid set_card message format.")
			return
		}
		card, err := shared.NewCard(payload.Rank, payload.Suit)
		if err != nil {
			h.sendErrorToClient(client, err.Error())
			return
		}
		if err := table.Deck.Set(payload.Index, card); err != nil {
			h.sendErrorToClient(client, err.Error())
			return
		}
		h.broadcastDeckState(table)

	case "sample":
		var payload protocol.SamplePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.sendErrorToClient(client, "Invalid sample message format.")
			return
		}
		if payload.Count < 1 || payload.Count > shared.DeckSize {
			h.sendErrorToClient(client, fmt.Sprintf("Sample count must be between 1 and %d.", shared.DeckSize))
			return
		}
		cards, err := shared.Sample(table.Deck, payload.Count, h.rng)
		if err != nil {
			h.sendErrorToClient(client, err.Error())
			return
		}
		sampleMsg, _ := protocol.NewMessage("sample", protocol.SampleResultPayload{Cards: protocol.NewCardInfos(cards)})
		h.sendMessageToClient(client.ID, sampleMsg)

	case "save_deck":
		if h.store == nil {
			h.sendErrorToClient(client, "Saving is not available.")
			return
		}
		snapshot := database.Snapshot{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC().Format(database.TimeLayout),
			TableCode: table.Code,
			Cards:     table.Deck.Cards(),
		}
		if err := h.store.Insert(snapshot); err != nil {
			log.Printf("Error saving deck of table %s: %v", table.Code, err)
			h.sendErrorToClient(client, "Failed to save deck.")
			return
		}
		log.Printf("Saved deck %s of table %s", snapshot.ID, table.Code)
		savedMsg, _ := protocol.NewMessage("deck_saved", protocol.DeckSavedPayload{ID: snapshot.ID})
		h.sendMessageToClient(client.ID, savedMsg)
	}
}

// sendMessageToClient sends a message to one client without blocking the hub.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	h.clientMu.RLock()
	var targetClient *Client
	for client := range h.clients {
		if client.ID == clientID {
			targetClient = client
			break
		}
	}
	h.clientMu.RUnlock()

	if targetClient == nil {
		log.Printf("Could not find client %s to send message (already disconnected?).", clientID)
		return
	}
	h.deliver(targetClient, message)
}

// deliver queues message on the client's send channel. A full channel means
// the client is stuck; it gets unregistered.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		log.Printf("Failed to send message to client %s (channel full or closed), initiating cleanup.", client.ID)
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[client]
			h.clientMu.RUnlock()
			if stillConnected {
				h.unregister <- client
			}
		}()
	}
}

// broadcastToTable sends a message to every client at a table.
func (h *Hub) broadcastToTable(table *Table, message []byte) {
	h.tableMu.RLock()
	clientsToSend := make([]*Client, len(table.Clients))
	copy(clientsToSend, table.Clients)
	h.tableMu.RUnlock()

	for _, client := range clientsToSend {
		if client != nil {
			h.deliver(client, message)
		}
	}
}

// broadcastDeckState sends the current deck order to everyone at the table.
func (h *Hub) broadcastDeckState(table *Table) {
	h.tableMu.RLock()
	payload := protocol.DeckStatePayload{
		TableCode: table.Code,
		Clients:   len(table.Clients),
		Cards:     protocol.NewCardInfos(table.Deck.Cards()),
	}
	h.tableMu.RUnlock()

	msgBytes, err := protocol.NewMessage("deck_state", payload)
	if err != nil {
		log.Printf("Error creating deck_state message for table %s: %v", table.Code, err)
		return
	}
	h.broadcastToTable(table, msgBytes)
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage("error", protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}

// sendJoinError sends a specific join error message to a client.
func (h *Hub) sendJoinError(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage("join_error", protocol.JoinErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Error creating join_error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}
