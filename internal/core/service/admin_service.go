package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
	"github.com/marudhara-crafts/catalog-sync/internal/core/ports"
	"github.com/marudhara-crafts/catalog-sync/internal/metrics"
)

// Operation names an admin mutation for status reporting and metrics.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// AdminService orchestrates authenticated catalog mutations. Each operation
// runs validate → gate check → remote mutation → resynchronizing Refresh.
// The mutation's success is determined by the remote response alone; a
// failed resynchronization only delays visibility and is logged, not
// returned. Re-entrant calls on the same product id are expected to be
// serialized by the caller; operations on different ids may overlap freely.
type AdminService struct {
	remote   ports.RemoteAdmin
	repo     ports.ProductRepository
	gate     ports.SessionGate
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAdminService(remote ports.RemoteAdmin, repo ports.ProductRepository, gate ports.SessionGate, logger zerolog.Logger) *AdminService {
	return &AdminService{
		remote:   remote,
		repo:     repo,
		gate:     gate,
		validate: validator.New(),
		logger:   logger,
	}
}

// Create adds a new product. The created record becomes visible in the
// snapshot only once the follow-up Refresh completes.
func (s *AdminService) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	if err := s.checkInput(input); err != nil {
		metrics.MutationsTotal.WithLabelValues(string(OpCreate), outcomeLabel(err)).Inc()
		return nil, err
	}
	if err := s.checkGate(); err != nil {
		metrics.MutationsTotal.WithLabelValues(string(OpCreate), outcomeLabel(err)).Inc()
		return nil, err
	}

	created, err := s.remote.CreateProduct(ctx, input)
	s.observe(OpCreate, err)
	if err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("product create failed")
		return nil, err
	}

	s.logger.Info().Int64("id", created.ID).Str("name", created.Name).Msg("product created")
	s.resync(ctx, OpCreate)
	return created, nil
}

// Update modifies an existing product. A nil Image retains the current
// image. Existence of id is decided by the remote side; an unknown id
// surfaces as ErrServer.
func (s *AdminService) Update(ctx context.Context, id int64, input ports.UpdateProductInput) (*domain.Product, error) {
	if err := s.checkInput(input); err != nil {
		metrics.MutationsTotal.WithLabelValues(string(OpUpdate), outcomeLabel(err)).Inc()
		return nil, err
	}
	if err := s.checkGate(); err != nil {
		metrics.MutationsTotal.WithLabelValues(string(OpUpdate), outcomeLabel(err)).Inc()
		return nil, err
	}

	updated, err := s.remote.UpdateProduct(ctx, id, input)
	s.observe(OpUpdate, err)
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("product update failed")
		return nil, err
	}

	s.logger.Info().Int64("id", id).Msg("product updated")
	s.resync(ctx, OpUpdate)
	return updated, nil
}

// Delete removes a product. User confirmation is the caller's
// responsibility; by the time Delete runs the decision is final.
func (s *AdminService) Delete(ctx context.Context, id int64) error {
	if err := s.checkGate(); err != nil {
		metrics.MutationsTotal.WithLabelValues(string(OpDelete), outcomeLabel(err)).Inc()
		return err
	}

	err := s.remote.DeleteProduct(ctx, id)
	s.observe(OpDelete, err)
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("product delete failed")
		return err
	}

	s.logger.Info().Int64("id", id).Msg("product deleted")
	s.resync(ctx, OpDelete)
	return nil
}

// checkGate rejects mutations while unauthenticated, before any remote call.
func (s *AdminService) checkGate() error {
	if !s.gate.Authenticated() {
		return fmt.Errorf("%w: login required", domain.ErrUnauthorized)
	}
	return nil
}

// checkInput maps validator violations onto ErrValidation with readable
// field messages.
func (s *AdminService) checkInput(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// resync re-fetches the list after a successful mutation. Failures here do
// not retract the mutation's success; the list is simply stale until the
// next successful refresh.
func (s *AdminService) resync(ctx context.Context, op Operation) {
	if _, err := s.repo.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Str("operation", string(op)).Msg("resynchronization failed, local list is stale")
	}
}

// observe records the mutation outcome and invalidates the session when the
// remote answered unauthorized.
func (s *AdminService) observe(op Operation, err error) {
	metrics.MutationsTotal.WithLabelValues(string(op), outcomeLabel(err)).Inc()
	if errors.Is(err, domain.ErrUnauthorized) {
		s.gate.Invalidate()
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrUnauthorized):
		return "auth"
	case errors.Is(err, domain.ErrNetwork):
		return "network"
	default:
		return "server"
	}
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// StatusMessage renders the single human-readable status the operator sees
// for a finished mutation.
func StatusMessage(op Operation, err error) string {
	if errors.Is(err, domain.ErrUnauthorized) {
		return "Please login first."
	}
	switch op {
	case OpCreate:
		if err == nil {
			return "Product added."
		}
		return "Failed to add product."
	case OpUpdate:
		if err == nil {
			return "Product updated."
		}
		return "Failed to update product."
	case OpDelete:
		if err == nil {
			return "Product deleted."
		}
		return "Failed to delete product."
	}
	return ""
}
