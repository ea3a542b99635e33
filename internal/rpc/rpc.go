// Package rpc is the optional front end SPEC_FULL.md §6 names: it exercises
// internal/engine's in-memory, Go-typed API directly (no wire decoding —
// the byte dispatcher and its wire format stay out of scope per spec.md's
// Non-goals) and is meant to be called from Go, in-process, the same way
// cmd/pairingctl's "serve" subcommand and this package's own tests do.
//
// Every method takes a context.Context first, per the teacher's gRPC
// handler convention (drand/core/drand_daemon_interceptors.go wraps every
// RPC the same way), and reports failures as google.golang.org/grpc/status
// errors built from internal/apierrors.Kind.Code() so a real grpc.Server
// registered in front of this type — were one added later, once a wire
// format is in scope — would already report the right codes without any
// translation layer.
package rpc

import (
	"context"
	"net"
	"net/http"

	"github.com/drand/pairing/internal/apierrors"
	"github.com/drand/pairing/internal/curve"
	"github.com/drand/pairing/internal/engine"
	"github.com/drand/pairing/internal/field"
	"github.com/drand/pairing/internal/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// G1Descriptor is the curve.Descriptor instantiation every family shares
// for G1, spelled out here so handler signatures don't need the generic
// parameters repeated at every call site.
type G1Descriptor = curve.Descriptor[field.Element, *field.Element]

// Server adapts one internal/engine.Engine to a gRPC-shaped handler set.
type Server struct {
	Engine *engine.Engine
	Log    log.Logger
}

// New builds a Server over e, defaulting Log to e.Log.
func New(e *engine.Engine) *Server {
	return &Server{Engine: e, Log: e.Log}
}

// toStatus converts an apierrors.Error (or any other error) into a gRPC
// status error, mapping unrecognized errors to codes.Unknown.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*apierrors.Error); ok {
		return status.Error(apiErr.Kind.Code(), apiErr.Error())
	}
	return status.Error(codes.Unknown, err.Error())
}

// G1AddRequest/G1AddResponse are the Go-typed argument/result pair for the
// G1Add opcode (§6 opcode 1); decoded and encoded entirely in Go, since no
// byte wire format is in scope here.
type G1AddRequest struct {
	P, Q *engine.G1Point
}

type G1AddResponse struct {
	R *engine.G1Point
}

// G1Add runs engine.G1Add against the G1 curve descriptor c, logging and
// status-wrapping any validation failure.
func (s *Server) G1Add(_ context.Context, c *G1Descriptor, req *G1AddRequest) (*G1AddResponse, error) {
	r, err := engine.G1Add(c, req.P, req.Q)
	if err != nil {
		s.Log.Warnw("g1_add failed", "err", err)
		return nil, toStatus(err)
	}
	return &G1AddResponse{R: r}, nil
}

// G1MulRequest/G1MulResponse are the G1Mul opcode's (§6 opcode 2) Go-typed
// argument/result pair.
type G1MulRequest struct {
	P      *engine.G1Point
	Scalar []uint64
}

type G1MulResponse struct {
	R *engine.G1Point
}

// G1Mul runs engine.G1Mul against the G1 curve descriptor c.
func (s *Server) G1Mul(_ context.Context, c *G1Descriptor, req *G1MulRequest) (*G1MulResponse, error) {
	r, err := engine.G1Mul(c, req.P, req.Scalar)
	if err != nil {
		s.Log.Warnw("g1_mul failed", "err", err)
		return nil, toStatus(err)
	}
	return &G1MulResponse{R: r}, nil
}

// G1MultiExpRequest/G1MultiExpResponse are the G1MultiExp opcode's (§6
// opcode 3) Go-typed argument/result pair.
type G1MultiExpRequest struct {
	Points  []*engine.G1Point
	Scalars [][]uint64
}

type G1MultiExpResponse struct {
	R *engine.G1Point
}

// G1MultiExp runs engine.G1MultiExp against the G1 curve descriptor c,
// reporting every invalid operand engine.G1MultiExp aggregated.
func (s *Server) G1MultiExp(_ context.Context, c *G1Descriptor, req *G1MultiExpRequest) (*G1MultiExpResponse, error) {
	r, err := engine.G1MultiExp(c, req.Points, req.Scalars)
	if err != nil {
		s.Log.Warnw("g1_multiexp failed", "err", err)
		return nil, toStatus(err)
	}
	return &G1MultiExpResponse{R: r}, nil
}

// Pair runs the Server's engine's family-specific pairing, logging the
// correlation id SPEC_FULL.md §2.2 asks internal/engine to mint per
// request. q's concrete type must match the engine's family (*bls12.G2Point
// etc.); a mismatch surfaces as an UnknownParameter status, same as calling
// Engine.Pair directly.
func (s *Server) Pair(_ context.Context, p *engine.G1Point, q interface{}) (interface{}, error) {
	reqID := engine.RequestID()
	out, err := s.Engine.Pair(reqID, p, q)
	if err != nil {
		s.Log.Warnw("pair failed", "request_id", reqID, "err", err)
		return nil, toStatus(err)
	}
	return out, nil
}

// Serve starts a minimal HTTP listener bound to addr, logging (never
// panicking) on failure, matching internal/metrics.Start's
// listen-and-log-not-fatal shape. It carries only a liveness check: this
// package's real contract is the Go method set above, called in-process,
// per the package doc; the listener exists so an operator can still point
// a health check at a live address.
func (s *Server) Serve(addr string) net.Listener {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		s.Log.Warnw("rpc listen failed", "err", err)
		return nil
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	httpSrv := &http.Server{Handler: mux}
	go func() {
		s.Log.Warnw("rpc server stopped", "err", httpSrv.Serve(l))
	}()
	return l
}
