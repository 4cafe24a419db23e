// Package grpcserver implements the JobService gRPC server.
//
// It delegates all business logic to the cache layer, the ranking package
// and the statistics service, and handles only the gRPC transport concerns:
// error mapping and conversion between domain values and Struct messages.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jobpilot/aggregator/internal/aggregator"
	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/model"
	"jobpilot/aggregator/internal/ranking"
	"jobpilot/aggregator/internal/stats"
)

// JobCache is the read-through snapshot cache.
type JobCache interface {
	Get(ctx context.Context, forceRefresh bool) (model.FetchResult, error)
}

// Server implements JobServiceServer.
type Server struct {
	jobs    JobCache
	stats   *stats.Service
	weights ranking.Weights
	log     logger.Logger
	now     func() time.Time
}

// NewServer constructs a Server backed by the given cache.
func NewServer(jobs JobCache, weights ranking.Weights, log logger.Logger) *Server {
	return &Server{
		jobs:    jobs,
		stats:   stats.NewService(jobs),
		weights: weights,
		log:     log.With(logger.String("component", "grpc")),
		now:     time.Now,
	}
}

// NewGRPCServer builds a grpc.Server with the JobService and the standard
// health service registered.
func NewGRPCServer(srv *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(srv.logInterceptor))
	gs := grpc.NewServer(opts...)
	RegisterJobServiceServer(gs, srv)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// FetchJobs returns the filtered and sorted snapshot.
//
// Request fields (all optional): refresh bool, sort string, q string,
// careerChange bool, junior bool, remote bool, location string,
// days number, sources list of strings, skills list of strings,
// skillLogic string, favorites list of strings, exclude list of strings.
func (s *Server) FetchJobs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := parseFetchRequest(req)
	if err != nil {
		return nil, toGRPCError(err)
	}

	res, err := s.jobs.Get(ctx, q.refresh)
	if err != nil {
		return nil, toGRPCError(err)
	}

	jobs := ranking.Apply(res.Jobs, q.filters, q.favorites, s.now())
	ranking.Sort(jobs, q.sort, q.filters, q.favorites, ranking.FriendlyCompanies(res.Jobs), s.weights)

	failed := res.FailedSources
	if failed == nil {
		failed = []model.Source{}
	}
	return toStruct(map[string]any{
		"jobs":          jobs,
		"failedSources": failed,
		"total":         len(res.Jobs),
	})
}

// GetStatistics returns requirement statistics. Request field:
// careerChangeOnly bool.
func (s *Server) GetStatistics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	careerOnly := req.GetFields()["careerChangeOnly"].GetBoolValue()

	st, err := s.stats.Statistics(ctx, careerOnly)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(st)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type fetchRequest struct {
	refresh   bool
	sort      ranking.SortMode
	filters   ranking.Filters
	favorites ranking.Favorites
}

func parseFetchRequest(req *structpb.Struct) (fetchRequest, error) {
	fields := req.GetFields()
	var (
		r   fetchRequest
		err error
	)
	r.refresh = fields["refresh"].GetBoolValue()
	if r.sort, err = ranking.ParseSortMode(fields["sort"].GetStringValue()); err != nil {
		return r, err
	}

	f := ranking.Filters{
		SearchTerm:       fields["q"].GetStringValue(),
		Location:         fields["location"].GetStringValue(),
		CareerChangeOnly: fields["careerChange"].GetBoolValue(),
		JuniorOnly:       fields["junior"].GetBoolValue(),
		Skills:           stringList(fields["skills"]),
		Exclude:          stringList(fields["exclude"]),
	}
	if v, ok := fields["remote"]; ok {
		b := v.GetBoolValue()
		f.Remote = &b
	}
	if v, ok := fields["days"]; ok {
		days := v.GetNumberValue()
		if days < 0 {
			return r, &ranking.ValidationError{Msg: fmt.Sprintf("invalid days value %v", days)}
		}
		f.Days = int(days)
	}
	if f.SkillLogic, err = ranking.ParseSkillLogic(fields["skillLogic"].GetStringValue()); err != nil {
		return r, err
	}
	for _, raw := range stringList(fields["sources"]) {
		src, err := model.ParseSource(raw)
		if err != nil {
			return r, &ranking.ValidationError{Msg: err.Error()}
		}
		f.Sources = append(f.Sources, src)
	}

	r.filters = f
	r.favorites = ranking.NewFavorites(stringList(fields["favorites"])...)
	return r, nil
}

func stringList(v *structpb.Value) []string {
	var out []string
	for _, item := range v.GetListValue().GetValues() {
		if s := item.GetStringValue(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// toStruct converts v to a Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return st, nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	if errors.Is(err, aggregator.ErrAllSourcesFailed) {
		return status.Error(codes.Unavailable, err.Error())
	}
	var ve *ranking.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Msg)
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal server error")
}

func (s *Server) logInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	fields := []logger.Field{
		logger.String("method", info.FullMethod),
		logger.String("code", status.Code(err).String()),
		logger.Duration("duration", time.Since(start)),
	}
	if err != nil {
		s.log.Warn("RPC failed", append(fields, logger.Error(err))...)
	} else {
		s.log.Debug("RPC served", fields...)
	}
	return resp, err
}
