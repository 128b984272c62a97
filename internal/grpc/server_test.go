package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/draftkit/internal/dal"
	"github.com/Billy-Davies-2/draftkit/internal/draft"
	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/models"
	"github.com/Billy-Davies-2/draftkit/internal/pubsub"
)

func startServer(t *testing.T) (*Client, *draft.Service, *pubsub.PubSub) {
	t.Helper()
	bus := pubsub.New()
	svc, err := draft.NewService(dal.NewMemoryDAL(dal.DefaultRounds), bus, nil, draft.DefaultOptions())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterDraftEngineServer(srv, NewServer(svc, bus))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn), svc, bus
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestGetStateAndDraft(t *testing.T) {
	client, _, _ := startServer(t)
	ctx := context.Background()

	out, err := client.Call(ctx, MethodGetState, nil)
	require.NoError(t, err)
	var state models.DraftState
	require.NoError(t, FromStruct(out, &state))
	assert.Len(t, state.Teams, 12)
	assert.Equal(t, 1, state.CurrentPick)

	out, err = client.Call(ctx, MethodDraftCandidate, mustStruct(t, map[string]any{"candidateId": "c001", "teamId": "t1"}))
	require.NoError(t, err)
	var pick models.DraftPick
	require.NoError(t, FromStruct(out, &pick))
	assert.Equal(t, 1, pick.Overall)

	tests := []struct {
		name string
		req  map[string]any
		want codes.Code
	}{
		{"already drafted", map[string]any{"candidateId": "c001", "teamId": "t2"}, codes.FailedPrecondition},
		{"unknown candidate", map[string]any{"candidateId": "zzz", "teamId": "t2"}, codes.NotFound},
		{"missing fields", map[string]any{}, codes.InvalidArgument},
		{"wrong type", map[string]any{"candidateId": 7.0, "teamId": "t2"}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Call(ctx, MethodDraftCandidate, mustStruct(t, tt.req))
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestRecommendAndTiers(t *testing.T) {
	client, _, _ := startServer(t)
	ctx := context.Background()

	out, err := client.Call(ctx, MethodRecommend, mustStruct(t, map[string]any{"teamId": "t1"}))
	require.NoError(t, err)
	var recs struct {
		Recommendations []models.Recommendation `json:"recommendations"`
	}
	require.NoError(t, FromStruct(out, &recs))
	assert.NotEmpty(t, recs.Recommendations)

	_, err = client.Call(ctx, MethodRecommend, mustStruct(t, map[string]any{"teamId": "t1", "strategy": "nope"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	out, err = client.Call(ctx, MethodTiers, mustStruct(t, map[string]any{"position": "QB"}))
	require.NoError(t, err)
	var tiers struct {
		Tiers map[models.Position][]models.Tier `json:"tiers"`
	}
	require.NoError(t, FromStruct(out, &tiers))
	assert.NotEmpty(t, tiers.Tiers[models.PositionQB])
}

func TestBoard(t *testing.T) {
	client, _, _ := startServer(t)
	ctx := context.Background()

	out, err := client.Call(ctx, MethodBoard, mustStruct(t, map[string]any{"teamId": "t4"}))
	require.NoError(t, err)
	var board engine.Board
	require.NoError(t, FromStruct(out, &board))
	assert.Equal(t, 4, board.Turn.Pick)

	out, err = client.Call(ctx, MethodBoard, mustStruct(t, map[string]any{"slot": 12.0, "round": 2.0}))
	require.NoError(t, err)
	require.NoError(t, FromStruct(out, &board))
	assert.Equal(t, 13, board.Turn.Pick)

	_, err = client.Call(ctx, MethodBoard, mustStruct(t, map[string]any{"slot": 13.0, "round": 1.0}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSelectKeepersAndAnalyze(t *testing.T) {
	client, _, _ := startServer(t)
	ctx := context.Background()

	req, err := ToStruct(draft.KeeperRequest{Candidates: []draft.KeeperInput{
		{Candidate: models.Candidate{ID: "a", Name: "A"}, ProjectedValue: 40, Cost: 5},
	}})
	require.NoError(t, err)
	out, err := client.Call(ctx, MethodSelectKeepers, req)
	require.NoError(t, err)
	var sel models.KeeperSelection
	require.NoError(t, FromStruct(out, &sel))
	require.Len(t, sel.Recommended, 1)
	assert.Equal(t, "a", sel.Recommended[0].Candidate.ID)

	_, err = client.Call(ctx, MethodAnalyze, mustStruct(t, map[string]any{"teamId": "t42"}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.Call(ctx, MethodAnalyze, nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestStreamEvents(t *testing.T) {
	client, svc, bus := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.StreamEvents(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return bus.SubscriberCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, svc.Reset())
	msg, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, pubsub.EventDraftReset, msg.GetFields()["type"].GetStringValue())
}
