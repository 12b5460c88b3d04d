package app

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"hr_evaluation_reminder/internal/domain/employee"
	"hr_evaluation_reminder/internal/domain/mail"
	"hr_evaluation_reminder/internal/domain/separation"

	"github.com/sirupsen/logrus"
)

// SeparationService lists separated employees and notifies their outsourcing vendors.
// It keeps no delivery state: notifying twice sends twice.
type SeparationService struct {
	source    employee.Source
	directory *separation.Directory
	resolver  employee.AttachmentResolver
	sender    mail.Sender
	renderer  SeparationRenderer
	cc        []string
	loc       *time.Location
	now       func() time.Time
	metrics   Metrics
	logger    *logrus.Entry
}

func NewSeparationService(
	source employee.Source,
	directory *separation.Directory,
	resolver employee.AttachmentResolver,
	sender mail.Sender,
	renderer SeparationRenderer,
	cc []string,
	loc *time.Location,
	logger *logrus.Entry,
) *SeparationService {
	if loc == nil {
		loc = time.UTC
	}
	return &SeparationService{
		source:    source,
		directory: directory,
		resolver:  resolver,
		sender:    sender,
		renderer:  renderer,
		cc:        cc,
		loc:       loc,
		now:       time.Now,
		metrics:   noopMetrics{},
		logger:    logger,
	}
}

func (s *SeparationService) WithMetrics(m Metrics) *SeparationService {
	if m != nil {
		s.metrics = m
	}
	return s
}

// WithClock replaces the time source used to resolve relative filters.
func (s *SeparationService) WithClock(now func() time.Time) *SeparationService {
	s.now = now
	return s
}

func (s *SeparationService) today() time.Time {
	t := s.now().In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// List returns the separated employees matching filter, grouped by vendor.
func (s *SeparationService) List(ctx context.Context, filter string) (*separation.Plan, error) {
	f, err := separation.ParseFilter(filter, s.today())
	if err != nil {
		return nil, err
	}
	rows, err := s.source.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	plan := separation.BuildPlan(rows, f, s.directory, s.loc)
	return &plan, nil
}

// VendorResult is the outcome of one vendor notice.
type VendorResult struct {
	Vendor           separation.Vendor `json:"vendor"`
	Employees        []string          `json:"employees"`
	Attachments      int               `json:"attachments"`
	AttachmentErrors []string          `json:"attachment_errors,omitempty"`
	Sent             bool              `json:"sent"`
	Error            string            `json:"error,omitempty"`
}

// SeparationSummary is the outcome of a notify call.
type SeparationSummary struct {
	Filter        string         `json:"filter"`
	Matched       int            `json:"matched"`
	VendorsSent   int            `json:"vendors_sent"`
	Results       []VendorResult `json:"results"`
	NoAction      []string       `json:"no_action"`
	UnknownVendor []string       `json:"unknown_vendor"`
}

// Notify sends one message per vendor listing its separated employees, with their papers attached.
func (s *SeparationService) Notify(ctx context.Context, filter string) (*SeparationSummary, error) {
	plan, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	logger := s.logger.WithField("filter", filter)

	summary := &SeparationSummary{
		Filter:        filter,
		Matched:       len(plan.Matched),
		Results:       []VendorResult{},
		NoAction:      names(plan.NoAction),
		UnknownVendor: names(plan.Unknown),
	}
	if len(plan.Unknown) > 0 {
		logger.WithField("employees", summary.UnknownVendor).Warn("Separated employees with unknown vendor")
	}

	for _, b := range plan.Batches {
		result := s.notifyVendor(ctx, b, logger)
		if result.Sent {
			summary.VendorsSent++
		}
		summary.Results = append(summary.Results, result)
	}
	s.metrics.ObserveSeparationNotice(summary)
	return summary, nil
}

func (s *SeparationService) notifyVendor(ctx context.Context, b *separation.VendorBatch, logger *logrus.Entry) VendorResult {
	vendorLogger := logger.WithFields(logrus.Fields{"vendor": b.Vendor.Name, "vendor_email": b.Vendor.Email})
	result := VendorResult{Vendor: b.Vendor, Employees: names(b.Employees)}

	var attachments []mail.Attachment
	for _, emp := range b.Employees {
		for _, att := range emp.Row.SeparationPapers {
			data, filename, err := s.resolver.Download(ctx, att)
			if err != nil {
				vendorLogger.WithError(err).WithField("employee", emp.Row.EmployeeName).Warn("Failed to download separation papers")
				result.AttachmentErrors = append(result.AttachmentErrors, fmt.Sprintf("%s: %v", emp.Row.EmployeeName, err))
				continue
			}
			if data == nil {
				continue
			}
			attachments = append(attachments, mail.Attachment{
				Filename:    filename,
				ContentType: contentTypeFor(filename),
				Content:     data,
			})
		}
	}
	result.Attachments = len(attachments)

	subject, body, err := s.renderer.RenderSeparation(b)
	if err != nil {
		result.Error = fmt.Sprintf("rendering notice: %v", err)
		vendorLogger.WithError(err).Error("Failed to render vendor notice")
		return result
	}
	msg := mail.Message{
		To:          []string{b.Vendor.Email},
		CC:          s.cc,
		Subject:     subject,
		HTMLBody:    body,
		Attachments: attachments,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		result.Error = err.Error()
		vendorLogger.WithError(err).Error("Failed to send vendor notice")
		return result
	}
	result.Sent = true
	vendorLogger.WithField("employees", len(b.Employees)).Info("Vendor notice sent")
	return result
}

func names(list []separation.Separated) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Row.EmployeeName)
	}
	return out
}

func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
