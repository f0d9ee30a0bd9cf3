// Package rpc exposes plan evaluation over gRPC. Messages are
// google.protobuf.Struct values shaped like plan documents, so no generated
// stubs are needed.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/relic-planner/internal/plan"
)

const (
	serviceName     = "relicplanner.v1.Planner"
	aggregateMethod = "/" + serviceName + "/Aggregate"
)

// PlannerServer is the server API for the Planner service.
type PlannerServer interface {
	// Aggregate evaluates a plan document and returns its per-relic yields,
	// category totals and per-entry errors.
	Aggregate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func aggregateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlannerServer).Aggregate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: aggregateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PlannerServer).Aggregate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc describes the Planner service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PlannerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Aggregate", Handler: aggregateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "relicplanner/v1/planner.proto",
}

// Register installs the planner and the standard health service on gs.
func Register(gs *grpc.Server, srv PlannerServer) *health.Server {
	gs.RegisterService(&ServiceDesc, srv)
	hs := health.NewServer()
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return hs
}

// Server evaluates plans against the current catalog.
type Server struct {
	mu     sync.RWMutex
	relics plan.Relics
}

func NewServer(relics plan.Relics) *Server {
	return &Server{relics: relics}
}

// SetCatalog swaps the catalog used by later calls.
func (s *Server) SetCatalog(relics plan.Relics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relics = relics
}

func (s *Server) Aggregate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	s.mu.RLock()
	relics := s.relics
	s.mu.RUnlock()
	if relics == nil {
		return nil, status.Error(codes.FailedPrecondition, "relic catalog not loaded")
	}

	raw, err := protojson.Marshal(in)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "encode request: %v", err)
	}
	doc, err := plan.Decode(raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := plan.Validate(doc); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	out, err := toStruct(plan.Evaluate(relics, doc))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return out, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlannerClient calls a remote Planner service.
type PlannerClient struct {
	cc grpc.ClientConnInterface
}

func NewPlannerClient(cc grpc.ClientConnInterface) *PlannerClient {
	return &PlannerClient{cc: cc}
}

func (c *PlannerClient) Aggregate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, aggregateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Evaluate sends doc and decodes the typed result.
func (c *PlannerClient) Evaluate(ctx context.Context, doc plan.Document, opts ...grpc.CallOption) (plan.Result, error) {
	in, err := toStruct(doc)
	if err != nil {
		return plan.Result{}, fmt.Errorf("encode plan: %w", err)
	}
	out, err := c.Aggregate(ctx, in, opts...)
	if err != nil {
		return plan.Result{}, err
	}
	b, err := protojson.Marshal(out)
	if err != nil {
		return plan.Result{}, fmt.Errorf("decode result: %w", err)
	}
	var res plan.Result
	if err := json.Unmarshal(b, &res); err != nil {
		return plan.Result{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}
