package protocol

import (
	"encoding/json"

	"albastini/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "create_table", "shuffle")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// --- Client -> Server Payload Structs ---

type JoinTablePayload struct {
	TableCode string `json:"table_code"`
}

type GetCardPayload struct {
	Index int `json:"index"`
}

type SetCardPayload struct {
	Index int    `json:"index"`
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
}

type SamplePayload struct {
	Count int `json:"count"`
}

// --- Server -> Client Payload Structs ---

// CardInfo is the wire form of a card with all derived attributes.
type CardInfo struct {
	Rank      string `json:"rank"`
	Suit      string `json:"suit"`
	RankName  string `json:"rank_name"`
	SuitName  string `json:"suit_name"`
	Order     int    `json:"order"`
	Point     int    `json:"point"`
	Display   string `json:"display"`
	ImageName string `json:"image"`
}

type ClientInfo struct {
	ID string `json:"id"`
}

type TableCreatedPayload struct {
	TableCode string `json:"table_code"`
}

type DeckStatePayload struct {
	TableCode string     `json:"table_code"`
	Clients   int        `json:"clients"`
	Cards     []CardInfo `json:"cards"`
}

type CardPayload struct {
	Index int      `json:"index"`
	Card  CardInfo `json:"card"`
}

type SampleResultPayload struct {
	Cards []CardInfo `json:"cards"`
}

type DeckSavedPayload struct {
	ID string `json:"id"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewCardInfo converts a card to its wire form.
func NewCardInfo(c shared.Card) CardInfo {
	return CardInfo{
		Rank:      c.RankSymbol(),
		Suit:      string(c.Suit()),
		RankName:  c.RankName(),
		SuitName:  c.SuitName(),
		Order:     c.RankOrder(),
		Point:     c.RankPoint(),
		Display:   c.String(),
		ImageName: c.ImageName(),
	}
}

// NewCardInfos converts a list of cards to their wire form.
func NewCardInfos(cards []shared.Card) []CardInfo {
	out := make([]CardInfo, len(cards))
	for i, c := range cards {
		out[i] = NewCardInfo(c)
	}
	return out
}

// Card validates the wire form and returns the card it names.
func (ci CardInfo) Card() (shared.Card, error) {
	return shared.NewCard(ci.Rank, ci.Suit)
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
