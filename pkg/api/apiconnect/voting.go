package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/loekvdlooilionx/votejam/pkg/api"
)

// VotingServiceName is the fully-qualified name of the VotingService service.
const VotingServiceName = "votejam.v1.VotingService"

// These constants are the fully-qualified names of the RPCs defined in this
// package. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	VotingServiceStartWeekProcedure         = "/votejam.v1.VotingService/StartWeek"
	VotingServiceCloseWeekProcedure         = "/votejam.v1.VotingService/CloseWeek"
	VotingServiceGetActiveWeekProcedure     = "/votejam.v1.VotingService/GetActiveWeek"
	VotingServiceListWeeksProcedure         = "/votejam.v1.VotingService/ListWeeks"
	VotingServiceSearchTracksProcedure      = "/votejam.v1.VotingService/SearchTracks"
	VotingServiceAddTrackProcedure          = "/votejam.v1.VotingService/AddTrack"
	VotingServiceCastVoteProcedure          = "/votejam.v1.VotingService/CastVote"
	VotingServiceGetStandingsProcedure      = "/votejam.v1.VotingService/GetStandings"
	VotingServiceListUnvotedTracksProcedure = "/votejam.v1.VotingService/ListUnvotedTracks"
	VotingServiceGetCoinsProcedure          = "/votejam.v1.VotingService/GetCoins"
)

// VotingServiceClient is a client for the votejam.v1.VotingService service.
type VotingServiceClient interface {
	StartWeek(context.Context, *connect.Request[api.StartWeekRequest]) (*connect.Response[api.StartWeekResponse], error)
	CloseWeek(context.Context, *connect.Request[api.CloseWeekRequest]) (*connect.Response[api.CloseWeekResponse], error)
	GetActiveWeek(context.Context, *connect.Request[api.GetActiveWeekRequest]) (*connect.Response[api.GetActiveWeekResponse], error)
	ListWeeks(context.Context, *connect.Request[api.ListWeeksRequest]) (*connect.Response[api.ListWeeksResponse], error)
	SearchTracks(context.Context, *connect.Request[api.SearchTracksRequest]) (*connect.Response[api.SearchTracksResponse], error)
	AddTrack(context.Context, *connect.Request[api.AddTrackRequest]) (*connect.Response[api.AddTrackResponse], error)
	CastVote(context.Context, *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error)
	GetStandings(context.Context, *connect.Request[api.GetStandingsRequest]) (*connect.Response[api.GetStandingsResponse], error)
	ListUnvotedTracks(context.Context, *connect.Request[api.ListUnvotedTracksRequest]) (*connect.Response[api.ListUnvotedTracksResponse], error)
	GetCoins(context.Context, *connect.Request[api.GetCoinsRequest]) (*connect.Response[api.GetCoinsResponse], error)
}

// NewVotingServiceClient constructs a client for the votejam.v1.VotingService service.
// Messages are sent with the JSON codec.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewVotingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) VotingServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &votingServiceClient{
		startWeek: connect.NewClient[api.StartWeekRequest, api.StartWeekResponse](
			httpClient,
			baseURL+VotingServiceStartWeekProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
		closeWeek: connect.NewClient[api.CloseWeekRequest, api.CloseWeekResponse](
			httpClient,
			baseURL+VotingServiceCloseWeekProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
		getActiveWeek: connect.NewClient[api.GetActiveWeekRequest, api.GetActiveWeekResponse](
			httpClient,
			baseURL+VotingServiceGetActiveWeekProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
		listWeeks: connect.NewClient[api.ListWeeksRequest, api.ListWeeksResponse](
			httpClient,
			baseURL+VotingServiceListWeeksProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
		searchTracks: connect.NewClient[api.SearchTracksRequest, api.SearchTracksResponse](
			httpClient,
			baseURL+VotingServiceSearchTracksProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
		addTrack: connect.NewClient[api.AddTrackRequest, api.AddTrackResponse](
			httpClient,
			baseURL+VotingServiceAddTrackProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
		castVote: connect.NewClient[api.CastVoteRequest, api.CastVoteResponse](
			httpClient,
			baseURL+VotingServiceCastVoteProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
		getStandings: connect.NewClient[api.GetStandingsRequest, api.GetStandingsResponse](
			httpClient,
			baseURL+VotingServiceGetStandingsProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
		listUnvotedTracks: connect.NewClient[api.ListUnvotedTracksRequest, api.ListUnvotedTracksResponse](
			httpClient,
			baseURL+VotingServiceListUnvotedTracksProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
		getCoins: connect.NewClient[api.GetCoinsRequest, api.GetCoinsResponse](
			httpClient,
			baseURL+VotingServiceGetCoinsProcedure,
			clientCodec,
			connect.WithClientOptions(opts...),
		),
	}
}

type votingServiceClient struct {
	startWeek         *connect.Client[api.StartWeekRequest, api.StartWeekResponse]
	closeWeek         *connect.Client[api.CloseWeekRequest, api.CloseWeekResponse]
	getActiveWeek     *connect.Client[api.GetActiveWeekRequest, api.GetActiveWeekResponse]
	listWeeks         *connect.Client[api.ListWeeksRequest, api.ListWeeksResponse]
	searchTracks      *connect.Client[api.SearchTracksRequest, api.SearchTracksResponse]
	addTrack          *connect.Client[api.AddTrackRequest, api.AddTrackResponse]
	castVote          *connect.Client[api.CastVoteRequest, api.CastVoteResponse]
	getStandings      *connect.Client[api.GetStandingsRequest, api.GetStandingsResponse]
	listUnvotedTracks *connect.Client[api.ListUnvotedTracksRequest, api.ListUnvotedTracksResponse]
	getCoins          *connect.Client[api.GetCoinsRequest, api.GetCoinsResponse]
}

func (c *votingServiceClient) StartWeek(ctx context.Context, req *connect.Request[api.StartWeekRequest]) (*connect.Response[api.StartWeekResponse], error) {
	return c.startWeek.CallUnary(ctx, req)
}

func (c *votingServiceClient) CloseWeek(ctx context.Context, req *connect.Request[api.CloseWeekRequest]) (*connect.Response[api.CloseWeekResponse], error) {
	return c.closeWeek.CallUnary(ctx, req)
}

func (c *votingServiceClient) GetActiveWeek(ctx context.Context, req *connect.Request[api.GetActiveWeekRequest]) (*connect.Response[api.GetActiveWeekResponse], error) {
	return c.getActiveWeek.CallUnary(ctx, req)
}

func (c *votingServiceClient) ListWeeks(ctx context.Context, req *connect.Request[api.ListWeeksRequest]) (*connect.Response[api.ListWeeksResponse], error) {
	return c.listWeeks.CallUnary(ctx, req)
}

func (c *votingServiceClient) SearchTracks(ctx context.Context, req *connect.Request[api.SearchTracksRequest]) (*connect.Response[api.SearchTracksResponse], error) {
	return c.searchTracks.CallUnary(ctx, req)
}

func (c *votingServiceClient) AddTrack(ctx context.Context, req *connect.Request[api.AddTrackRequest]) (*connect.Response[api.AddTrackResponse], error) {
	return c.addTrack.CallUnary(ctx, req)
}

func (c *votingServiceClient) CastVote(ctx context.Context, req *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error) {
	return c.castVote.CallUnary(ctx, req)
}

func (c *votingServiceClient) GetStandings(ctx context.Context, req *connect.Request[api.GetStandingsRequest]) (*connect.Response[api.GetStandingsResponse], error) {
	return c.getStandings.CallUnary(ctx, req)
}

func (c *votingServiceClient) ListUnvotedTracks(ctx context.Context, req *connect.Request[api.ListUnvotedTracksRequest]) (*connect.Response[api.ListUnvotedTracksResponse], error) {
	return c.listUnvotedTracks.CallUnary(ctx, req)
}

func (c *votingServiceClient) GetCoins(ctx context.Context, req *connect.Request[api.GetCoinsRequest]) (*connect.Response[api.GetCoinsResponse], error) {
	return c.getCoins.CallUnary(ctx, req)
}

// VotingServiceHandler is implemented by the votejam.v1.VotingService server.
// Runs voting weeks: submissions, votes and standings.
type VotingServiceHandler interface {
	StartWeek(context.Context, *connect.Request[api.StartWeekRequest]) (*connect.Response[api.StartWeekResponse], error)
	CloseWeek(context.Context, *connect.Request[api.CloseWeekRequest]) (*connect.Response[api.CloseWeekResponse], error)
	GetActiveWeek(context.Context, *connect.Request[api.GetActiveWeekRequest]) (*connect.Response[api.GetActiveWeekResponse], error)
	ListWeeks(context.Context, *connect.Request[api.ListWeeksRequest]) (*connect.Response[api.ListWeeksResponse], error)
	SearchTracks(context.Context, *connect.Request[api.SearchTracksRequest]) (*connect.Response[api.SearchTracksResponse], error)
	AddTrack(context.Context, *connect.Request[api.AddTrackRequest]) (*connect.Response[api.AddTrackResponse], error)
	CastVote(context.Context, *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error)
	GetStandings(context.Context, *connect.Request[api.GetStandingsRequest]) (*connect.Response[api.GetStandingsResponse], error)
	ListUnvotedTracks(context.Context, *connect.Request[api.ListUnvotedTracksRequest]) (*connect.Response[api.ListUnvotedTracksResponse], error)
	GetCoins(context.Context, *connect.Request[api.GetCoinsRequest]) (*connect.Response[api.GetCoinsResponse], error)
}

// NewVotingServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewVotingServiceHandler(svc VotingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	votingServiceStartWeekHandler := connect.NewUnaryHandler(
		VotingServiceStartWeekProcedure,
		svc.StartWeek,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	votingServiceCloseWeekHandler := connect.NewUnaryHandler(
		VotingServiceCloseWeekProcedure,
		svc.CloseWeek,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	votingServiceGetActiveWeekHandler := connect.NewUnaryHandler(
		VotingServiceGetActiveWeekProcedure,
		svc.GetActiveWeek,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	votingServiceListWeeksHandler := connect.NewUnaryHandler(
		VotingServiceListWeeksProcedure,
		svc.ListWeeks,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	votingServiceSearchTracksHandler := connect.NewUnaryHandler(
		VotingServiceSearchTracksProcedure,
		svc.SearchTracks,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	votingServiceAddTrackHandler := connect.NewUnaryHandler(
		VotingServiceAddTrackProcedure,
		svc.AddTrack,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	votingServiceCastVoteHandler := connect.NewUnaryHandler(
		VotingServiceCastVoteProcedure,
		svc.CastVote,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	votingServiceGetStandingsHandler := connect.NewUnaryHandler(
		VotingServiceGetStandingsProcedure,
		svc.GetStandings,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	votingServiceListUnvotedTracksHandler := connect.NewUnaryHandler(
		VotingServiceListUnvotedTracksProcedure,
		svc.ListUnvotedTracks,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	votingServiceGetCoinsHandler := connect.NewUnaryHandler(
		VotingServiceGetCoinsProcedure,
		svc.GetCoins,
		handlerCodec,
		connect.WithHandlerOptions(opts...),
	)
	return "/votejam.v1.VotingService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case VotingServiceStartWeekProcedure:
			votingServiceStartWeekHandler.ServeHTTP(w, r)
		case VotingServiceCloseWeekProcedure:
			votingServiceCloseWeekHandler.ServeHTTP(w, r)
		case VotingServiceGetActiveWeekProcedure:
			votingServiceGetActiveWeekHandler.ServeHTTP(w, r)
		case VotingServiceListWeeksProcedure:
			votingServiceListWeeksHandler.ServeHTTP(w, r)
		case VotingServiceSearchTracksProcedure:
			votingServiceSearchTracksHandler.ServeHTTP(w, r)
		case VotingServiceAddTrackProcedure:
			votingServiceAddTrackHandler.ServeHTTP(w, r)
		case VotingServiceCastVoteProcedure:
			votingServiceCastVoteHandler.ServeHTTP(w, r)
		case VotingServiceGetStandingsProcedure:
			votingServiceGetStandingsHandler.ServeHTTP(w, r)
		case VotingServiceListUnvotedTracksProcedure:
			votingServiceListUnvotedTracksHandler.ServeHTTP(w, r)
		case VotingServiceGetCoinsProcedure:
			votingServiceGetCoinsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedVotingServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedVotingServiceHandler struct{}

func (UnimplementedVotingServiceHandler) StartWeek(context.Context, *connect.Request[api.StartWeekRequest]) (*connect.Response[api.StartWeekResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.StartWeek is not implemented"))
}

func (UnimplementedVotingServiceHandler) CloseWeek(context.Context, *connect.Request[api.CloseWeekRequest]) (*connect.Response[api.CloseWeekResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.CloseWeek is not implemented"))
}

func (UnimplementedVotingServiceHandler) GetActiveWeek(context.Context, *connect.Request[api.GetActiveWeekRequest]) (*connect.Response[api.GetActiveWeekResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.GetActiveWeek is not implemented"))
}

func (UnimplementedVotingServiceHandler) ListWeeks(context.Context, *connect.Request[api.ListWeeksRequest]) (*connect.Response[api.ListWeeksResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.ListWeeks is not implemented"))
}

func (UnimplementedVotingServiceHandler) SearchTracks(context.Context, *connect.Request[api.SearchTracksRequest]) (*connect.Response[api.SearchTracksResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.SearchTracks is not implemented"))
}

func (UnimplementedVotingServiceHandler) AddTrack(context.Context, *connect.Request[api.AddTrackRequest]) (*connect.Response[api.AddTrackResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.AddTrack is not implemented"))
}

func (UnimplementedVotingServiceHandler) CastVote(context.Context, *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.CastVote is not implemented"))
}

func (UnimplementedVotingServiceHandler) GetStandings(context.Context, *connect.Request[api.GetStandingsRequest]) (*connect.Response[api.GetStandingsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.GetStandings is not implemented"))
}

func (UnimplementedVotingServiceHandler) ListUnvotedTracks(context.Context, *connect.Request[api.ListUnvotedTracksRequest]) (*connect.Response[api.ListUnvotedTracksResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.ListUnvotedTracks is not implemented"))
}

func (UnimplementedVotingServiceHandler) GetCoins(context.Context, *connect.Request[api.GetCoinsRequest]) (*connect.Response[api.GetCoinsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("votejam.v1.VotingService.GetCoins is not implemented"))
}
