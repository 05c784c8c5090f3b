package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/email"
	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/internal/schedule"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/messaging"
)

// DateLayout is the calendar-date format accepted by the booking API.
const DateLayout = "2006-01-02"

// Channel appointment events are published on.
const EventChannel = "appointments"

// Appointment event types.
const (
	EventCreated   = "appointment.created"
	EventConfirmed = "appointment.confirmed"
	EventCancelled = "appointment.cancelled"
	EventDeleted   = "appointment.deleted"
)

// Options tune presentation-level behavior; none of them are business rules.
type Options struct {
	Window              schedule.Window
	MaxSuggestions      int
	MyAppointmentsLimit int
	UpcomingWindow      time.Duration
}

func DefaultOptions() Options {
	return Options{
		Window:              schedule.DefaultWindow(),
		MaxSuggestions:      12,
		MyAppointmentsLimit: 30,
		UpcomingWindow:      time.Hour,
	}
}

type Service struct {
	repo     repository.AppointmentRepository
	catalog  repository.CatalogRepository
	users    repository.UserRepository
	emailSvc email.Service
	broker   messaging.Broker
	logger   *logger.Logger
	opts     Options
}

func NewService(
	repo repository.AppointmentRepository,
	catalog repository.CatalogRepository,
	users repository.UserRepository,
	emailSvc email.Service,
	broker messaging.Broker,
	logger *logger.Logger,
	opts Options,
) *Service {
	if opts.Window.StepMinutes == 0 {
		opts.Window = schedule.DefaultWindow()
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = DefaultOptions().MaxSuggestions
	}
	if opts.MyAppointmentsLimit <= 0 {
		opts.MyAppointmentsLimit = DefaultOptions().MyAppointmentsLimit
	}
	if opts.UpcomingWindow <= 0 {
		opts.UpcomingWindow = DefaultOptions().UpcomingWindow
	}
	return &Service{
		repo:     repo,
		catalog:  catalog,
		users:    users,
		emailSvc: emailSvc,
		broker:   broker,
		logger:   logger,
		opts:     opts,
	}
}

// ListFreeSlots returns the bookable time-of-day values for the doctor on the
// given calendar date, ascending, excluding slots held by an active
// appointment. The result is capped at MaxSuggestions.
func (s *Service) ListFreeSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if doctorID == uuid.Nil {
		return nil, apperrors.InvalidRequest("doctor is required", nil)
	}
	dayStart, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("invalid date %q", date), err)
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	slots, err := s.opts.Window.Slots()
	if err != nil {
		return nil, err
	}

	occupied, err := s.repo.OccupiedStarts(ctx, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	busy := make(map[string]bool, len(occupied))
	for _, t := range occupied {
		busy[t.Format(schedule.SlotLayout)] = true
	}

	free := make([]string, 0, len(slots))
	for _, slot := range slots {
		if busy[slot] {
			continue
		}
		free = append(free, slot)
		if len(free) == s.opts.MaxSuggestions {
			break
		}
	}
	return free, nil
}

// Book validates a booking request and commits a new pending appointment.
// The conflict check and the insert resolve as one atomic decision: the
// partial unique index fails the loser of a race, and the repository maps
// that failure back to a SlotTaken error.
func (s *Service) Book(ctx context.Context, caller model.Caller, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	if caller.UserID == uuid.Nil {
		return nil, apperrors.Unauthorized("sign in to book an appointment")
	}
	if req.ClinicID == uuid.Nil || req.DepartmentID == uuid.Nil || req.DoctorID == uuid.Nil {
		return nil, apperrors.InvalidRequest("clinic, department and doctor are required", nil)
	}

	startAt, err := combineDateTime(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	doctor, err := s.catalog.GetDoctorInfo(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor.DepartmentID != req.DepartmentID {
		return nil, apperrors.HierarchyMismatch("selected doctor does not belong to this department")
	}
	if doctor.ClinicID != req.ClinicID {
		return nil, apperrors.HierarchyMismatch("selected department does not belong to this clinic")
	}

	taken, err := s.repo.IsSlotTaken(ctx, req.DoctorID, startAt)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if taken {
		return nil, apperrors.SlotTaken(nil)
	}

	now := time.Now()
	apt := &model.Appointment{
		ID:        uuid.New(),
		PatientID: caller.UserID,
		DoctorID:  req.DoctorID,
		StartAt:   startAt,
		Note:      strings.TrimSpace(req.Note),
		Status:    model.AppointmentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, err
	}

	s.notify(ctx, caller.Email, apt, EventCreated)
	return apt, nil
}

// MyAppointments lists the caller's own appointments, newest first, plus the
// active ones starting within the upcoming-reminder window.
func (s *Service) MyAppointments(ctx context.Context, caller model.Caller) (all, upcoming []*model.Appointment, err error) {
	if caller.UserID == uuid.Nil {
		return nil, nil, apperrors.Unauthorized("")
	}

	all, err = s.repo.ListByPatient(ctx, caller.UserID, s.opts.MyAppointmentsLimit)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	now := time.Now()
	for _, apt := range all {
		if apt.Status == model.AppointmentStatusCancelled {
			continue
		}
		if !apt.StartAt.Before(now) && !apt.StartAt.After(now.Add(s.opts.UpcomingWindow)) {
			upcoming = append(upcoming, apt)
		}
	}
	return all, upcoming, nil
}

// ApplyAction applies an administrative transition to an appointment.
// Confirm is idempotent and deliberately unguarded against the cancelled
// state; cancel is allowed from any state; delete removes the row outright.
// Unknown actions mutate nothing and return the record as-is.
func (s *Service) ApplyAction(ctx context.Context, caller model.Caller, id uuid.UUID, action string) (*model.Appointment, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("administrator role required")
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch action {
	case model.ActionConfirm:
		updated, err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusConfirmed)
		if err != nil {
			return nil, err
		}
		s.notifyPatient(ctx, updated, EventConfirmed)
		return updated, nil

	case model.ActionCancel:
		updated, err := s.repo.UpdateStatus(ctx, id, model.AppointmentStatusCancelled)
		if err != nil {
			return nil, err
		}
		s.notifyPatient(ctx, updated, EventCancelled)
		return updated, nil

	case model.ActionDelete:
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		s.publish(ctx, apt, EventDeleted)
		return apt, nil

	default:
		// Unknown tokens are a no-op, never a surprise transition.
		return apt, nil
	}
}

// Search returns appointments for administrative review: status-filtered at
// the data layer, newest first, then free-text matched in-process across
// patient, doctor, department, clinic, status and the formatted timestamp.
func (s *Service) Search(ctx context.Context, caller model.Caller, statusFilter, query string) ([]*model.AppointmentDetail, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("administrator role required")
	}

	status, err := parseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	details, err := s.repo.ListDetails(ctx, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return details, nil
	}

	matched := make([]*model.AppointmentDetail, 0, len(details))
	for _, d := range details {
		if matchesQuery(d, q) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

// Stats returns the admin dashboard counters: all appointments, those
// starting today, and those still pending.
func (s *Service) Stats(ctx context.Context, caller model.Caller) (*model.AppointmentStats, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.Unauthorized("administrator role required")
	}

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.repo.CountStartingBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	pending, err := s.repo.CountByStatus(ctx, model.AppointmentStatusPending)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.AppointmentStats{Total: total, Today: today, Pending: pending}, nil
}

func combineDateTime(date, timeOfDay string) (time.Time, error) {
	t, err := time.ParseInLocation(model.StartAtLayout, date+" "+timeOfDay, time.Local)
	if err != nil {
		return time.Time{}, apperrors.InvalidRequest(fmt.Sprintf("invalid date/time %q %q", date, timeOfDay), err)
	}
	return t, nil
}

func parseStatusFilter(filter string) (model.AppointmentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", model.StatusFilterAll:
		return "", nil
	case string(model.AppointmentStatusPending):
		return model.AppointmentStatusPending, nil
	case string(model.AppointmentStatusConfirmed):
		return model.AppointmentStatusConfirmed, nil
	case string(model.AppointmentStatusCancelled):
		return model.AppointmentStatusCancelled, nil
	default:
		return "", apperrors.InvalidRequest(fmt.Sprintf("unknown status filter %q", filter), nil)
	}
}

func matchesQuery(d *model.AppointmentDetail, q string) bool {
	fields := []string{
		d.PatientEmail,
		d.PatientName,
		d.DoctorName,
		d.DepartmentName,
		d.ClinicName,
		string(d.Status),
		d.StartAt.Format(model.StartAtLayout),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// notify delivers the booking email and event for a freshly created
// appointment. Failures are logged, never surfaced to the caller.
func (s *Service) notify(ctx context.Context, patientEmail string, apt *model.Appointment, eventType string) {
	if patientEmail != "" {
		if err := s.emailSvc.SendBookingReceived(ctx, patientEmail, apt); err != nil {
			s.logger.Error(err, "failed to send booking email", "appointment_id", apt.ID)
		}
	}
	s.publish(ctx, apt, eventType)
}

// notifyPatient looks the patient up and delivers the status-change email and
// event. Failures are logged, never surfaced to the caller.
func (s *Service) notifyPatient(ctx context.Context, apt *model.Appointment, eventType string) {
	patient, err := s.users.Get(ctx, apt.PatientID)
	if err != nil {
		s.logger.Error(err, "failed to resolve patient for notification", "appointment_id", apt.ID)
	} else if err := s.emailSvc.SendStatusChanged(ctx, patient.Email, apt); err != nil {
		s.logger.Error(err, "failed to send status email", "appointment_id", apt.ID)
	}
	s.publish(ctx, apt, eventType)
}

func (s *Service) publish(ctx context.Context, apt *model.Appointment, eventType string) {
	if s.broker == nil {
		return
	}
	msg := messaging.Message{Type: eventType, Payload: apt}
	if err := s.broker.Publish(ctx, EventChannel, msg); err != nil {
		s.logger.Error(err, "failed to publish appointment event", "event", eventType, "appointment_id", apt.ID)
	}
}
