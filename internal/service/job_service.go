package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TerrestrialLabs/jobboardx-sub000/internal/clients"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/domain"
	"github.com/TerrestrialLabs/jobboardx-sub000/internal/repository"
)

// JobInput carries the employer-editable fields of a posting. Company and
// contact fields are never taken from the input; they always come from the
// owning employer's profile.
type JobInput struct {
	Title           string   `json:"title"`
	JobType         string   `json:"type"`
	Location        string   `json:"location"`
	Remote          bool     `json:"remote"`
	Skills          []string `json:"skills"`
	Perks           []string `json:"perks"`
	Featured        bool     `json:"featured"`
	ApplicationLink string   `json:"applicationLink"`
	Description     string   `json:"description"`
	SalaryMin       int      `json:"salaryMin"`
	SalaryMax       int      `json:"salaryMax"`
}

// JobService is the authentic (paid) posting lifecycle.
type JobService interface {
	// Create verifies the payment intent and inserts the posting. The order
	// id carried by the intent is the idempotency key: replaying the same
	// payment returns domain.ErrDuplicateOrder.
	Create(ctx context.Context, employer *domain.User, paymentIntentID string, input JobInput) (*domain.Job, error)

	// Update rewrites the posting. Owner or superadmin only; company and
	// contact fields are refreshed from the owner's profile.
	Update(ctx context.Context, actor *domain.User, jobID string, input JobInput) (*domain.Job, error)

	// Delete removes the posting. Owner or superadmin only.
	Delete(ctx context.Context, actor *domain.User, jobID string) error
}

type jobService struct {
	jobsRepo  repository.JobsRepository
	usersRepo repository.UsersRepository
	payments  clients.PaymentVerifier
	notifier  clients.Notifier
	logger    *zap.Logger
}

func NewJobService(
	jobsRepo repository.JobsRepository,
	usersRepo repository.UsersRepository,
	payments clients.PaymentVerifier,
	notifier clients.Notifier,
	logger *zap.Logger,
) JobService {
	return &jobService{
		jobsRepo:  jobsRepo,
		usersRepo: usersRepo,
		payments:  payments,
		notifier:  notifier,
		logger:    logger,
	}
}

func validateJobInput(input *JobInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.ApplicationLink = strings.TrimSpace(input.ApplicationLink)
	if input.Title == "" || input.ApplicationLink == "" {
		return fmt.Errorf("title and application link are required: %w", domain.ErrInvalidRequest)
	}
	if !domain.ValidJobType(input.JobType) {
		return fmt.Errorf("unknown job type %q: %w", input.JobType, domain.ErrInvalidRequest)
	}
	if !domain.ValidSalaryRange(input.SalaryMin, input.SalaryMax) {
		return fmt.Errorf("salary range is inverted: %w", domain.ErrInvalidRequest)
	}
	return nil
}

func (s *jobService) Create(ctx context.Context, employer *domain.User, paymentIntentID string, input JobInput) (*domain.Job, error) {
	if employer == nil || employer.Role != domain.RoleEmployer {
		return nil, fmt.Errorf("only employers create postings: %w", domain.ErrUnauthorized)
	}
	if err := validateJobInput(&input); err != nil {
		return nil, err
	}
	if paymentIntentID == "" {
		return nil, fmt.Errorf("payment intent id is required: %w", domain.ErrInvalidRequest)
	}

	// Payment verification is an essential dependency: no succeeded intent,
	// no posting.
	intent, err := s.payments.Retrieve(ctx, paymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("payment verification unavailable: %w", domain.ErrDependencyFailure)
	}
	if intent.Status != clients.PaymentStatusSucceeded {
		s.logger.Warn("Posting rejected: payment not succeeded",
			zap.String("payment_intent_id", paymentIntentID),
			zap.String("status", intent.Status),
		)
		return nil, fmt.Errorf("payment is %q, not %q: %w", intent.Status, clients.PaymentStatusSucceeded, domain.ErrInvalidRequest)
	}
	orderID := intent.Metadata.OrderID
	if orderID == "" {
		return nil, fmt.Errorf("payment intent carries no order id: %w", domain.ErrInvalidRequest)
	}

	now := time.Now()
	job := &domain.Job{
		TenantID:        employer.TenantID,
		Title:           input.Title,
		Company:         employer.Company,
		CompanyURL:      employer.Website,
		CompanyLogo:     employer.Logo,
		JobType:         input.JobType,
		Location:        input.Location,
		Remote:          input.Remote,
		Skills:          input.Skills,
		Perks:           input.Perks,
		Featured:        input.Featured,
		ApplicationLink: input.ApplicationLink,
		Description:     input.Description,
		SalaryMin:       input.SalaryMin,
		SalaryMax:       input.SalaryMax,
		DatePosted:      now,
		EmployerID:      employer.UserID,
		OrderID:         orderID,
	}

	// The unique index on order_id is the authoritative replay guard.
	jobID, err := s.jobsRepo.CreateJob(ctx, job)
	if err != nil {
		return nil, err
	}
	job.JobID = jobID

	// Fire-and-forget: the confirmation email must never delay the response.
	// The detached context survives the request ending.
	go s.notifier.Send(context.WithoutCancel(ctx), employer.Email, "job-posted", map[string]any{
		"jobId": jobID,
		"title": job.Title,
	})

	s.logger.Info("Posting created",
		zap.String("tenant_id", employer.TenantID),
		zap.String("job_id", jobID),
		zap.String("employer_id", employer.UserID),
		zap.String("order_id", orderID),
	)
	return job, nil
}

func (s *jobService) authorize(actor *domain.User, job *domain.Job) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if actor.Role == domain.RoleSuperadmin {
		return nil
	}
	if job.EmployerID != "" && job.EmployerID == actor.UserID {
		return nil
	}
	return fmt.Errorf("posting belongs to another employer: %w", domain.ErrUnauthorized)
}

func (s *jobService) Update(ctx context.Context, actor *domain.User, jobID string, input JobInput) (*domain.Job, error) {
	job, err := s.jobsRepo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, job); err != nil {
		return nil, err
	}
	if err := validateJobInput(&input); err != nil {
		return nil, err
	}

	job.Title = input.Title
	job.JobType = input.JobType
	job.Location = input.Location
	job.Remote = input.Remote
	job.Skills = input.Skills
	job.Perks = input.Perks
	job.Featured = input.Featured
	job.ApplicationLink = input.ApplicationLink
	job.Description = input.Description
	job.SalaryMin = input.SalaryMin
	job.SalaryMax = input.SalaryMax

	// Company and contact fields track the owner's profile, not the request
	// body. A stale logo or renamed company converges on the next update.
	if job.EmployerID != "" {
		owner, err := s.usersRepo.GetUser(ctx, job.EmployerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load posting owner: %w", err)
		}
		job.Company = owner.Company
		job.CompanyURL = owner.Website
		job.CompanyLogo = owner.Logo
	}

	if err := s.jobsRepo.UpdateJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, actor *domain.User, jobID string) error {
	job, err := s.jobsRepo.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, job); err != nil {
		return err
	}
	if err := s.jobsRepo.DeleteJob(ctx, jobID); err != nil {
		return err
	}
	s.logger.Info("Posting deleted",
		zap.String("job_id", jobID),
		zap.String("actor_id", actor.UserID),
		zap.String("actor_role", actor.Role),
	)
	return nil
}
