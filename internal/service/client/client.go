package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	api "github.com/oshokin/alert-override/internal/api/grpc/alert"
	"github.com/oshokin/alert-override/internal/config"
)

// Client wraps the gRPC AlertService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the engine.
	conn *grpc.ClientConn
	// api is the AlertService stub.
	api *api.AlertServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
	// reporter is sent with every call when set.
	reporter string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithReporter identifies the reporting process to the engine logs.
func WithReporter(reporter string) Option {
	return func(c *Client) {
		c.reporter = reporter
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errMaybeDelivered marks a failed report the engine may already have acted on.
	errMaybeDelivered = errors.New("report may have reached the engine")
)

// Dial creates a client for the engine at address. The connection is
// established lazily by the first call.
// Note: this uses insecure transport credentials; the engine is meant to
// listen on loopback or a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alert engine: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewAlertServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// ReportCall reports a call-state transition. Reports start sessions, so the
// call waits for the connection instead of failing fast and is never retried.
func (c *Client) ReportCall(ctx context.Context, report *api.CallReport) (api.Verdict, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ReportCall(callCtx, report.Struct(), grpc.WaitForReady(true))
	if err != nil {
		return api.Verdict{}, fmt.Errorf("report call: %w: %w", errMaybeDelivered, err)
	}

	return api.DecodeVerdict(resp)
}

// ReportSms reports a delivered message. It is never retried, like ReportCall.
func (c *Client) ReportSms(ctx context.Context, report *api.SmsReport) (api.Verdict, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.ReportSms(callCtx, report.Struct(), grpc.WaitForReady(true))
	if err != nil {
		return api.Verdict{}, fmt.Errorf("report sms: %w: %w", errMaybeDelivered, err)
	}

	return api.DecodeVerdict(resp)
}

// GetAudioState reads the engine's device state.
func (c *Client) GetAudioState(ctx context.Context) (api.AudioState, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetAudioState(callCtx, nil)
	if err != nil {
		return api.AudioState{}, fmt.Errorf("get audio state: %w", err)
	}

	return api.DecodeAudioState(resp)
}

// SetAudioState changes the engine's device state.
func (c *Client) SetAudioState(ctx context.Context, state *api.AudioState) (api.AudioState, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.SetAudioState(callCtx, state.Struct())
	if err != nil {
		return api.AudioState{}, fmt.Errorf("set audio state: %w", err)
	}

	return api.DecodeAudioState(resp)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The reporter is
// attached as outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.reporter != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, api.ReporterMetadataKey, c.reporter)
	}

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
