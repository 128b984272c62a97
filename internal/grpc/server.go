// Package grpc exposes the draft engine over gRPC.
package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/draftkit/internal/dal"
	"github.com/Billy-Davies-2/draftkit/internal/draft"
	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/logger"
	"github.com/Billy-Davies-2/draftkit/internal/pubsub"
)

// Server implements the DraftEngine service over the draft service
type Server struct {
	svc    *draft.Service
	events pubsub.Source
}

// NewServer creates a new gRPC server
func NewServer(svc *draft.Service, events pubsub.Source) *Server {
	return &Server{
		svc:    svc,
		events: events,
	}
}

// ToStruct converts any JSON-encodable value into a Struct
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FromStruct decodes a Struct into v using its JSON tags
func FromStruct(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// toStatus maps service errors onto gRPC status codes
func toStatus(method string, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, dal.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, draft.ErrInvalidRequest),
		errors.Is(err, draft.ErrNoTeamOnClock),
		errors.Is(err, dal.ErrInvalidCandidate),
		errors.Is(err, dal.ErrInvalidTeam),
		errors.Is(err, engine.ErrInvalidSlot):
		code = codes.InvalidArgument
	case errors.Is(err, dal.ErrAlreadyDrafted),
		errors.Is(err, dal.ErrDraftComplete):
		code = codes.FailedPrecondition
	default:
		code = codes.Internal
		logger.Error("gRPC: request failed", "method", method, "error", err)
	}
	return status.Error(code, err.Error())
}

func decodeRequest(in *structpb.Struct, v any) error {
	if err := FromStruct(in, v); err != nil {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("malformed request: %v", err))
	}
	return nil
}

func encodeResponse(v any) (*structpb.Struct, error) {
	out, err := ToStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

type teamRequest struct {
	TeamID string `json:"teamId"`
}

// GetState returns the current draft state
func (s *Server) GetState(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	logger.Debug("gRPC: Getting draft state")
	state, err := s.svc.State()
	if err != nil {
		return nil, toStatus("GetState", err)
	}
	return encodeResponse(state)
}

// DraftCandidate drafts a candidate to a team
func (s *Server) DraftCandidate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		CandidateID string `json:"candidateId"`
		TeamID      string `json:"teamId"`
	}
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	if req.CandidateID == "" || req.TeamID == "" {
		return nil, status.Error(codes.InvalidArgument, "candidateId and teamId are required")
	}

	logger.Info("gRPC: Drafting candidate", "candidate_id", req.CandidateID, "team_id", req.TeamID)
	pick, err := s.svc.Pick(req.CandidateID, req.TeamID)
	if err != nil {
		return nil, toStatus("DraftCandidate", err)
	}
	return encodeResponse(pick)
}

// Recommend ranks candidates for a team
func (s *Server) Recommend(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		TeamID   string `json:"teamId"`
		Strategy string `json:"strategy"`
		Risk     string `json:"risk"`
	}
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	recs, err := s.svc.Recommend(req.TeamID, req.Strategy, req.Risk)
	if err != nil {
		return nil, toStatus("Recommend", err)
	}
	return encodeResponse(map[string]any{"recommendations": recs})
}

// Tiers returns tiers for one position or all of them
func (s *Server) Tiers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		Position string `json:"position"`
	}
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	tiers, err := s.svc.Tiers(req.Position)
	if err != nil {
		return nil, toStatus("Tiers", err)
	}
	return encodeResponse(map[string]any{"tiers": tiers})
}

// Board analyzes a team's turn, or an explicit slot and round when slot is set
func (s *Server) Board(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req struct {
		TeamID string `json:"teamId"`
		Slot   int    `json:"slot"`
		Round  int    `json:"round"`
		Teams  int    `json:"teams"`
	}
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}

	var (
		board engine.Board
		err   error
	)
	if req.Slot > 0 {
		state, serr := s.svc.State()
		if serr != nil {
			return nil, toStatus("Board", serr)
		}
		teams := req.Teams
		if teams == 0 {
			teams = len(state.Teams)
		}
		board, err = s.svc.BoardAt(state.Available, req.Slot, req.Round, teams)
	} else {
		board, err = s.svc.Board(req.TeamID)
	}
	if err != nil {
		return nil, toStatus("Board", err)
	}
	return encodeResponse(board)
}

// SelectKeepers picks keepers from the submitted candidates
func (s *Server) SelectKeepers(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req draft.KeeperRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	return encodeResponse(s.svc.SelectKeepers(req))
}

// Analyze grades a team's draft so far
func (s *Server) Analyze(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req teamRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	out, err := s.svc.Analyze(req.TeamID)
	if err != nil {
		return nil, toStatus("Analyze", err)
	}
	return encodeResponse(out)
}

// StreamEvents streams events to clients
func (s *Server) StreamEvents(_ *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	logger.Debug("gRPC: New client connected to event stream")
	eventChan := s.events.Subscribe()
	defer s.events.Unsubscribe(eventChan)

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return nil
			}
			msg, err := ToStruct(event)
			if err != nil {
				logger.Warn("gRPC: Failed to encode event", "type", event.Type, "error", err)
				continue
			}
			if err := stream.Send(msg); err != nil {
				logger.Error("gRPC: Failed to send event to stream", "error", err)
				return err
			}
		case <-stream.Context().Done():
			logger.Debug("gRPC: Client disconnected from event stream")
			return nil
		}
	}
}
