package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"albastini/internal/database"
	"albastini/internal/protocol"
	"albastini/internal/shared"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func startHub(t *testing.T) (*Hub, *database.Service, string) {
	t.Helper()
	db, err := database.New("sqlite3", filepath.Join(t.TempDir(), "hub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hub := NewHub(db)
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	t.Cleanup(srv.Close)
	return hub, db, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *testClient {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	c := &testClient{t: t, conn: conn}
	var info protocol.ClientInfo
	c.expect("connected", &info)
	require.NotEmpty(t, info.ID)
	c.id = info.ID
	return c
}

func (c *testClient) send(msgType string, payload any) {
	c.t.Helper()
	raw, err := protocol.NewMessage(msgType, payload)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, raw))
}

// expect reads messages until one of type msgType arrives and decodes its
// payload into v.
func (c *testClient) expect(msgType string, v any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, raw, err := c.conn.ReadMessage()
		require.NoError(c.t, err, "waiting for %s", msgType)
		var msg protocol.Message
		require.NoError(c.t, json.Unmarshal(raw, &msg))
		if msg.Type != msgType {
			continue
		}
		if v != nil {
			require.NoError(c.t, json.Unmarshal(msg.Payload, v))
		}
		return
	}
}

func (c *testClient) expectError(contains string) {
	c.t.Helper()
	var payload protocol.ErrorPayload
	c.expect("error", &payload)
	assert.Contains(c.t, payload.Message, contains)
}

func createTable(c *testClient) (string, protocol.DeckStatePayload) {
	c.t.Helper()
	c.send("create_table", nil)
	var created protocol.TableCreatedPayload
	c.expect("table_created", &created)
	require.Len(c.t, created.TableCode, tableCodeLength)

	var state protocol.DeckStatePayload
	c.expect("deck_state", &state)
	return created.TableCode, state
}

func cardMultiset(cards []protocol.CardInfo) map[string]int {
	m := make(map[string]int)
	for _, c := range cards {
		m[c.Rank+c.Suit]++
	}
	return m
}

func TestCreateTable(t *testing.T) {
	hub, _, url := startHub(t)
	c := dial(t, url)

	code, state := createTable(c)
	assert.Equal(t, code, state.TableCode)
	assert.Equal(t, 1, state.Clients)
	require.Len(t, state.Cards, shared.DeckSize)
	assert.Equal(t, "3 of SPADES", state.Cards[0].Display)
	assert.Equal(t, "ace_of_hearts.png", state.Cards[shared.DeckSize-1].ImageName)
	assert.Equal(t, 1, hub.TableCount())

	c.send("create_table", nil)
	c.expectError("Already at a table")
}

func TestDeckActionsRequireTable(t *testing.T) {
	_, _, url := startHub(t)
	c := dial(t, url)

	c.send("shuffle", nil)
	c.expectError("Not at a table")

	c.send("bogus", nil)
	c.expectError("Unknown message type")

	c.send("ping", nil)
	c.expect("pong", nil)
}

func TestGetAndSetCard(t *testing.T) {
	_, _, url := startHub(t)
	c := dial(t, url)
	createTable(c)

	c.send("get_card", protocol.GetCardPayload{Index: 8})
	var got protocol.CardPayload
	c.expect("card", &got)
	assert.Equal(t, 8, got.Index)
	assert.Equal(t, "ACE of SPADES", got.Card.Display)
	assert.Equal(t, 11, got.Card.Point)

	c.send("get_card", protocol.GetCardPayload{Index: shared.DeckSize})
	c.expectError("index out of bounds")

	c.send("get_card", protocol.GetCardPayload{Index: -1})
	c.expectError("index out of bounds")

	c.send("set_card", protocol.SetCardPayload{Index: 0, Rank: "x", Suit: "H"})
	c.expectError(`invalid rank "x"`)

	c.send("set_card", protocol.SetCardPayload{Index: 0, Rank: "7", Suit: "c"})
	c.expectError(`invalid suit "c"`)

	c.send("set_card", protocol.SetCardPayload{Index: 99, Rank: "7", Suit: "C"})
	c.expectError("index out of bounds")

	c.send("set_card", protocol.SetCardPayload{Index: 0, Rank: "K", Suit: "H"})
	var state protocol.DeckStatePayload
	c.expect("deck_state", &state)
	require.Len(t, state.Cards, shared.DeckSize)
	assert.Equal(t, "KING of HEARTS", state.Cards[0].Display)

	c.send("reset", nil)
	c.expect("deck_state", &state)
	assert.Equal(t, "3 of SPADES", state.Cards[0].Display)
}

func TestShuffleAndSort(t *testing.T) {
	_, _, url := startHub(t)
	c := dial(t, url)
	_, initial := createTable(c)

	c.send("shuffle", nil)
	var shuffled protocol.DeckStatePayload
	c.expect("deck_state", &shuffled)
	require.Len(t, shuffled.Cards, shared.DeckSize)
	assert.Equal(t, cardMultiset(initial.Cards), cardMultiset(shuffled.Cards))

	c.send("sort", nil)
	var sorted protocol.DeckStatePayload
	c.expect("deck_state", &sorted)
	require.Len(t, sorted.Cards, shared.DeckSize)
	for i, ci := range sorted.Cards {
		assert.Equal(t, i/4, ci.Order, "position %d", i)
	}
}

func TestSample(t *testing.T) {
	_, _, url := startHub(t)
	c := dial(t, url)
	createTable(c)

	c.send("sample", protocol.SamplePayload{Count: 5})
	var sample protocol.SampleResultPayload
	c.expect("sample", &sample)
	assert.Len(t, sample.Cards, 5)

	c.send("sample", protocol.SamplePayload{Count: 0})
	c.expectError("Sample count")

	c.send("sample", protocol.SamplePayload{Count: shared.DeckSize + 1})
	c.expectError("Sample count")
}

func TestSaveDeck(t *testing.T) {
	_, db, url := startHub(t)
	c := dial(t, url)
	code, _ := createTable(c)

	c.send("shuffle", nil)
	var state protocol.DeckStatePayload
	c.expect("deck_state", &state)

	c.send("save_deck", nil)
	var saved protocol.DeckSavedPayload
	c.expect("deck_saved", &saved)
	require.NotEmpty(t, saved.ID)

	snap, err := db.GetByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, code, snap.TableCode)
	_, err = time.Parse(database.TimeLayout, snap.CreatedAt)
	require.NoError(t, err)
	assert.Len(t, snap.CreatedAt, len("2006-01-02T15:04:05.000000000Z"))
	assert.Equal(t, state.Cards, protocol.NewCardInfos(snap.Cards))
}

func TestJoinTable(t *testing.T) {
	hub, _, url := startHub(t)
	owner := dial(t, url)
	code, _ := createTable(owner)

	guest := dial(t, url)
	guest.send("join_table", protocol.JoinTablePayload{TableCode: "ZZZZZZ"})
	var joinErr protocol.JoinErrorPayload
	guest.expect("join_error", &joinErr)
	assert.Equal(t, "Table code not found.", joinErr.Message)

	guest.send("join_table", protocol.JoinTablePayload{TableCode: strings.ToLower(code)})
	var state protocol.DeckStatePayload
	guest.expect("deck_state", &state)
	assert.Equal(t, 2, state.Clients)
	owner.expect("deck_state", &state)
	assert.Equal(t, 2, state.Clients)

	// Changes made by one client reach everyone at the table.
	guest.send("shuffle", nil)
	owner.expect("deck_state", &state)
	assert.Len(t, state.Cards, shared.DeckSize)

	require.NoError(t, guest.conn.Close())
	owner.expect("deck_state", &state)
	assert.Equal(t, 1, state.Clients)

	require.NoError(t, owner.conn.Close())
	assert.Eventually(t, func() bool { return hub.TableCount() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestSaveDeckWithoutStore(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r)
	}))
	defer srv.Close()

	c := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))
	createTable(c)
	c.send("save_deck", nil)
	c.expectError("Saving is not available")
}
