package alert

import (
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Field names shared by requests and responses.
const (
	fieldState              = "state"
	fieldNumber             = "number"
	fieldBody               = "body"
	fieldEventID            = "event_id"
	fieldOutcome            = "outcome"
	fieldReason             = "reason"
	fieldContact            = "contact"
	fieldSchedule           = "schedule"
	fieldWindow             = "window"
	fieldTitle              = "title"
	fieldTones              = "tones"
	fieldRestoreDelayMs     = "restore_delay_ms"
	fieldRingerMode         = "ringer_mode"
	fieldNotificationVolume = "notification_volume"
	fieldMediaVolume        = "media_volume"
	fieldMaxVolume          = "max_volume"
)

// CallReport is the ReportCall request.
type CallReport struct {
	// State is ringing, offhook or idle; empty means ringing.
	State string
	// Number is the caller ID; empty when withheld.
	Number string
}

// SmsReport is the ReportSms request.
type SmsReport struct {
	Number string
	Body   string
}

// Verdict is the response of both report methods.
type Verdict struct {
	EventID  string
	Outcome  string
	Reason   string
	Contact  string
	Schedule string
	Window   string
	// Title is the posted notification title, empty unless alerting.
	Title string
	// Tones and RestoreDelay describe the started session, zero unless alerting.
	Tones        int
	RestoreDelay time.Duration
}

// AudioState is the device state exchanged by the audio methods.
type AudioState struct {
	RingerMode         string
	NotificationVolume int
	MediaVolume        int
	MaxVolume          int
}

// Struct encodes the report.
func (r *CallReport) Struct() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		fieldState:  structpb.NewStringValue(r.State),
		fieldNumber: structpb.NewStringValue(r.Number),
	})
}

// Struct encodes the report.
func (r *SmsReport) Struct() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		fieldNumber: structpb.NewStringValue(r.Number),
		fieldBody:   structpb.NewStringValue(r.Body),
	})
}

// Struct encodes the verdict.
func (v *Verdict) Struct() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		fieldEventID:        structpb.NewStringValue(v.EventID),
		fieldOutcome:        structpb.NewStringValue(v.Outcome),
		fieldReason:         structpb.NewStringValue(v.Reason),
		fieldContact:        structpb.NewStringValue(v.Contact),
		fieldSchedule:       structpb.NewStringValue(v.Schedule),
		fieldWindow:         structpb.NewStringValue(v.Window),
		fieldTitle:          structpb.NewStringValue(v.Title),
		fieldTones:          structpb.NewNumberValue(float64(v.Tones)),
		fieldRestoreDelayMs: structpb.NewNumberValue(float64(v.RestoreDelay.Milliseconds())),
	})
}

// Struct encodes the audio state.
func (a *AudioState) Struct() *structpb.Struct {
	return newStruct(map[string]*structpb.Value{
		fieldRingerMode:         structpb.NewStringValue(a.RingerMode),
		fieldNotificationVolume: structpb.NewNumberValue(float64(a.NotificationVolume)),
		fieldMediaVolume:        structpb.NewNumberValue(float64(a.MediaVolume)),
		fieldMaxVolume:          structpb.NewNumberValue(float64(a.MaxVolume)),
	})
}

// DecodeCallReport reads a ReportCall request.
func DecodeCallReport(s *structpb.Struct) (CallReport, error) {
	r := reader{s: s}
	report := CallReport{
		State:  r.string(fieldState),
		Number: r.string(fieldNumber),
	}

	return report, r.err
}

// DecodeSmsReport reads a ReportSms request.
func DecodeSmsReport(s *structpb.Struct) (SmsReport, error) {
	r := reader{s: s}
	report := SmsReport{
		Number: r.string(fieldNumber),
		Body:   r.string(fieldBody),
	}

	return report, r.err
}

// DecodeVerdict reads a report response.
func DecodeVerdict(s *structpb.Struct) (Verdict, error) {
	r := reader{s: s}
	verdict := Verdict{
		EventID:      r.string(fieldEventID),
		Outcome:      r.string(fieldOutcome),
		Reason:       r.string(fieldReason),
		Contact:      r.string(fieldContact),
		Schedule:     r.string(fieldSchedule),
		Window:       r.string(fieldWindow),
		Title:        r.string(fieldTitle),
		Tones:        r.int(fieldTones),
		RestoreDelay: time.Duration(r.int(fieldRestoreDelayMs)) * time.Millisecond,
	}

	return verdict, r.err
}

// DecodeAudioState reads an audio state message.
func DecodeAudioState(s *structpb.Struct) (AudioState, error) {
	r := reader{s: s}
	state := AudioState{
		RingerMode:         r.string(fieldRingerMode),
		NotificationVolume: r.int(fieldNotificationVolume),
		MediaVolume:        r.int(fieldMediaVolume),
		MaxVolume:          r.int(fieldMaxVolume),
	}

	return state, r.err
}

func newStruct(fields map[string]*structpb.Value) *structpb.Struct {
	return &structpb.Struct{Fields: fields}
}

// reader pulls typed fields out of a Struct, keeping the first type error.
// Absent fields read as zero values.
type reader struct {
	s   *structpb.Struct
	err error
}

func (r *reader) value(name string) (*structpb.Value, bool) {
	v, ok := r.s.GetFields()[name]
	if !ok || v == nil {
		return nil, false
	}

	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, false
	}

	return v, true
}

func (r *reader) string(name string) string {
	v, ok := r.value(name)
	if !ok {
		return ""
	}

	s, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		r.fail(name, "string")

		return ""
	}

	return s.StringValue
}

func (r *reader) int(name string) int {
	v, ok := r.value(name)
	if !ok {
		return 0
	}

	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) ||
		n.NumberValue > math.MaxInt32 || n.NumberValue < math.MinInt32 {
		r.fail(name, "integer")

		return 0
	}

	return int(n.NumberValue)
}

func (r *reader) fail(name, want string) {
	if r.err == nil {
		r.err = fmt.Errorf("field %q: %w: want %s", name, ErrBadField, want)
	}
}
