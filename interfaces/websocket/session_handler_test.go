package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"relatree/domain/tree"
)

type stubStore struct {
	collection tree.Collection
}

func (s *stubStore) Load(ctx context.Context) (tree.Collection, error) {
	return s.collection, nil
}

func (s *stubStore) Save(ctx context.Context, c tree.Collection) error {
	s.collection = c
	return nil
}

type recordingEditor struct {
	connections  [][2]tree.NodeID
	commits      []tree.NodeID
	lastX, lastY float64
}

func (e *recordingEditor) AddConnection(ctx context.Context, treeID tree.TreeID, from, to tree.NodeID, connType string) error {
	e.connections = append(e.connections, [2]tree.NodeID{from, to})
	return nil
}

func (e *recordingEditor) CommitNodePosition(ctx context.Context, treeID tree.TreeID, nodeID tree.NodeID, x, y float64) error {
	e.commits = append(e.commits, nodeID)
	e.lastX, e.lastY = x, y
	return nil
}

func gestureFixture(t *testing.T) (*SessionHandler, *recordingEditor, *Client, tree.TreeID, tree.NodeID, tree.NodeID) {
	t.Helper()
	collection := tree.NewCollection()
	treeID := collection.CreateTree(tree.CategoryFamily, "Hart")
	tr, err := collection.Get(treeID)
	require.NoError(t, err)
	a, err := tr.AddReferenceNode("actor-a", 100, 100)
	require.NoError(t, err)
	b, err := tr.AddReferenceNode("actor-b", 300, 200)
	require.NoError(t, err)

	editor := &recordingEditor{}
	logger := zap.NewNop()
	handler := NewSessionHandler(editor, &stubStore{collection: collection}, nil, logger)
	client := NewClient("user-1", NewHub(logger), nil, handler, logger)
	return handler, editor, client, treeID, a.ID, b.ID
}

func gesture(msgType string, payload gesturePayload) Message {
	data, _ := json.Marshal(payload)
	return Message{Type: msgType, Data: data}
}

func recv(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	default:
		t.Fatal("no message queued")
		return Message{}
	}
}

func TestSessionGestureWithoutOpenTree(t *testing.T) {
	handler, _, client, _, nodeA, _ := gestureFixture(t)

	handler.HandleClientMessage(client, gesture(GestureNodeClick, gesturePayload{NodeID: nodeA.String()}))

	msg := recv(t, client)
	assert.Equal(t, EventSessionError, msg.Type)
}

func TestSessionOpenTreeSendsViewModel(t *testing.T) {
	handler, _, client, treeID, _, _ := gestureFixture(t)

	handler.HandleClientMessage(client, gesture(GestureOpenTree, gesturePayload{TreeID: treeID.String()}))

	msg := recv(t, client)
	require.Equal(t, EventTreeOpened, msg.Type)
	var vm struct {
		Name  string `json:"name"`
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &vm))
	assert.Equal(t, "Hart", vm.Name)
	assert.Len(t, vm.Nodes, 2)
}

func TestSessionOpenUnknownTree(t *testing.T) {
	handler, _, client, _, _, _ := gestureFixture(t)

	handler.HandleClientMessage(client, gesture(GestureOpenTree, gesturePayload{TreeID: "no-such-tree"}))

	msg := recv(t, client)
	require.Equal(t, EventSessionError, msg.Type)
	var e struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestSessionConnectGestureFlow(t *testing.T) {
	handler, editor, client, treeID, nodeA, nodeB := gestureFixture(t)

	handler.HandleClientMessage(client, gesture(GestureOpenTree, gesturePayload{TreeID: treeID.String()}))
	recv(t, client)

	handler.HandleClientMessage(client, gesture(GestureBeginConnect, gesturePayload{NodeID: nodeA.String(), ConnectionType: "family"}))
	msg := recv(t, client)
	require.Equal(t, EventSessionState, msg.Type)
	var state sessionState
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.Equal(t, "picking_target", state.Phase)
	assert.Equal(t, nodeA.String(), state.PendingSource)
	assert.Equal(t, "family", state.PendingType)

	// Clicking the source again is a self-loop: ignored, still picking.
	handler.HandleClientMessage(client, gesture(GestureNodeClick, gesturePayload{NodeID: nodeA.String()}))
	msg = recv(t, client)
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.Equal(t, "picking_target", state.Phase)
	assert.Equal(t, "ignored", state.LastOutcome)
	assert.Empty(t, editor.connections)

	handler.HandleClientMessage(client, gesture(GestureNodeClick, gesturePayload{NodeID: nodeB.String()}))
	msg = recv(t, client)
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.Equal(t, "idle", state.Phase)
	assert.Equal(t, "completed", state.LastOutcome)
	require.Len(t, editor.connections, 1)
	assert.Equal(t, [2]tree.NodeID{nodeA, nodeB}, editor.connections[0])
}

func TestSessionCanvasClickCancels(t *testing.T) {
	handler, editor, client, treeID, nodeA, _ := gestureFixture(t)

	handler.HandleClientMessage(client, gesture(GestureOpenTree, gesturePayload{TreeID: treeID.String()}))
	recv(t, client)
	handler.HandleClientMessage(client, gesture(GestureBeginConnect, gesturePayload{NodeID: nodeA.String()}))
	recv(t, client)

	handler.HandleClientMessage(client, gesture(GestureCanvasClick, gesturePayload{}))
	msg := recv(t, client)
	var state sessionState
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	assert.Equal(t, "idle", state.Phase)
	assert.Equal(t, "cancelled", state.LastOutcome)
	assert.Empty(t, editor.connections)
}

func TestSessionDragPersistsOnlyOnEnd(t *testing.T) {
	handler, editor, client, treeID, nodeA, _ := gestureFixture(t)

	handler.HandleClientMessage(client, gesture(GestureOpenTree, gesturePayload{TreeID: treeID.String()}))
	recv(t, client)

	handler.HandleClientMessage(client, gesture(GestureDragStart, gesturePayload{NodeID: nodeA.String()}))
	handler.HandleClientMessage(client, gesture(GestureDragMove, gesturePayload{NodeID: nodeA.String(), X: 150, Y: 120}))
	handler.HandleClientMessage(client, gesture(GestureDragMove, gesturePayload{NodeID: nodeA.String(), X: 180, Y: 140}))
	assert.Empty(t, editor.commits)

	handler.HandleClientMessage(client, gesture(GestureDragEnd, gesturePayload{NodeID: nodeA.String(), X: 200, Y: 160}))
	require.Len(t, editor.commits, 1)
	assert.Equal(t, nodeA, editor.commits[0])
	assert.Equal(t, 200.0, editor.lastX)
	assert.Equal(t, 160.0, editor.lastY)
}

func TestSessionClosedOnDisconnect(t *testing.T) {
	handler, _, client, treeID, nodeA, _ := gestureFixture(t)

	handler.HandleClientMessage(client, gesture(GestureOpenTree, gesturePayload{TreeID: treeID.String()}))
	recv(t, client)

	handler.ClientClosed(client)

	handler.HandleClientMessage(client, gesture(GestureNodeClick, gesturePayload{NodeID: nodeA.String()}))
	msg := recv(t, client)
	assert.Equal(t, EventSessionError, msg.Type)
}
