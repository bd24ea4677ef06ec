package alert

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alert-override/internal/device/audio"
	domain "github.com/oshokin/alert-override/internal/domain/alert"
	"github.com/oshokin/alert-override/internal/logger"
	"github.com/oshokin/alert-override/internal/service/orchestrator"
)

// Service abstracts the event entry points the transport layer depends on.
type Service interface {
	OnCall(ctx context.Context, event orchestrator.CallEvent) orchestrator.Result
	OnSms(ctx context.Context, event orchestrator.SmsEvent) orchestrator.Result
}

// AudioControl exposes the device state to operators.
type AudioControl interface {
	State() audio.State
	SetState(state audio.State)
}

// Server implements AlertServiceServer.
type Server struct {
	// service decides and starts overrides.
	service Service
	// audio is the device operators can inspect and silence.
	audio AudioControl
}

// NewServer wires the provided implementations into a gRPC handler.
func NewServer(service Service, audio AudioControl) *Server {
	return &Server{
		service: service,
		audio:   audio,
	}
}

// ReportCall feeds a call-state transition to the engine.
func (s *Server) ReportCall(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	report, err := DecodeCallReport(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	state, ok := callState(report.State)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown call state %q", report.State)
	}

	result := s.service.OnCall(ctx, orchestrator.CallEvent{State: state, Number: report.Number})

	return toVerdict(&result).Struct(), nil
}

// ReportSms feeds a delivered message to the engine.
func (s *Server) ReportSms(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	report, err := DecodeSmsReport(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if strings.TrimSpace(report.Number) == "" {
		return nil, status.Error(codes.InvalidArgument, "number is required")
	}

	result := s.service.OnSms(ctx, orchestrator.SmsEvent{Number: report.Number, Body: report.Body})

	return toVerdict(&result).Struct(), nil
}

// GetAudioState returns the device state.
func (s *Server) GetAudioState(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	state := s.audio.State()

	return toAudioState(state).Struct(), nil
}

// SetAudioState replaces the ringer mode and volumes.
func (s *Server) SetAudioState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := DecodeAudioState(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	mode, err := domain.ParseRingerMode(in.RingerMode)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.audio.SetState(audio.State{
		RingerMode:         mode,
		NotificationVolume: in.NotificationVolume,
		MediaVolume:        in.MediaVolume,
	})

	state := s.audio.State()

	logger.InfoKV(ctx, "Audio state changed",
		"ringer_mode", state.RingerMode.String(),
		"notification_volume", state.NotificationVolume,
		"media_volume", state.MediaVolume,
	)

	return toAudioState(state).Struct(), nil
}

func callState(name string) (orchestrator.CallState, bool) {
	switch state := orchestrator.CallState(strings.ToLower(strings.TrimSpace(name))); state {
	case "":
		return orchestrator.CallRinging, true
	case orchestrator.CallRinging, orchestrator.CallOffhook, orchestrator.CallIdle:
		return state, true
	default:
		return "", false
	}
}

func toVerdict(result *orchestrator.Result) *Verdict {
	d := &result.Decision
	v := &Verdict{
		EventID: result.EventID,
		Outcome: string(d.Outcome),
		Reason:  string(d.Reason),
	}

	if d.Contact != nil {
		v.Contact = d.Contact.DisplayName
	}

	if d.Schedule != nil {
		v.Schedule = d.Schedule.Name
		v.Window = d.Schedule.Window()
	}

	if result.Notification != nil {
		v.Title = result.Notification.Title
	}

	if result.Session != nil {
		plan := result.Session.Plan()
		v.Tones = plan.Tones
		v.RestoreDelay = plan.RestoreDelay
	}

	return v
}

func toAudioState(state audio.State) *AudioState {
	return &AudioState{
		RingerMode:         state.RingerMode.String(),
		NotificationVolume: state.NotificationVolume,
		MediaVolume:        state.MediaVolume,
		MaxVolume:          state.MaxVolume,
	}
}
