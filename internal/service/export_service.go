package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/motorhall/garage-api/internal/models"
	"github.com/motorhall/garage-api/internal/slots"
	appErrors "github.com/motorhall/garage-api/pkg/errors"
	"github.com/motorhall/garage-api/pkg/export"
)

type appointmentLister interface {
	ListByWorkshopDate(ctx context.Context, workshopID string, dayStart, dayEnd time.Time) ([]models.Appointment, error)
}

// ExportFile is a rendered day-sheet ready to stream to the client.
type ExportFile struct {
	Content  []byte
	Filename string
	MIMEType string
}

// ExportService renders a workshop's day sheet, the printable list of
// the day's appointments with their assigned mechanics.
type ExportService struct {
	workshops    workshopSource
	mechanics    mechanicSource
	appointments appointmentLister
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	location     *time.Location
	logger       *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(workshops workshopSource, mechanics mechanicSource, appointments appointmentLister, location *time.Location, logger *zap.Logger) *ExportService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		workshops:    workshops,
		mechanics:    mechanics,
		appointments: appointments,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		location:     location,
		logger:       logger,
	}
}

var daySheetHeaders = []string{"Time", "Customer", "Vehicle", "Mechanic", "Duration", "Status"}

// DaySheet renders the workshop's appointments for a date as CSV or PDF.
func (s *ExportService) DaySheet(ctx context.Context, workshopID string, date time.Time, format string) (*ExportFile, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	workshop, err := s.workshops.FindByID(ctx, workshopID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workshop not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workshop")
	}

	dayStart := slots.InstantOn(date, 0, s.location)
	appointments, err := s.appointments.ListByWorkshopDate(ctx, workshopID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointments")
	}

	names, err := s.mechanicNames(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: daySheetHeaders, Rows: make([]map[string]string, 0, len(appointments))}
	for _, appointment := range appointments {
		vehicle := ""
		if appointment.VehicleInfo != nil {
			vehicle = *appointment.VehicleInfo
		}
		mechanic := ""
		if appointment.MechanicID != nil {
			mechanic = names[*appointment.MechanicID]
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Time":     appointment.ScheduledStart.In(s.location).Format("15:04"),
			"Customer": appointment.CustomerName,
			"Vehicle":  vehicle,
			"Mechanic": mechanic,
			"Duration": fmt.Sprintf("%d min", appointment.DurationMinutes),
			"Status":   string(appointment.Status),
		})
	}

	day := date.Format("2006-01-02")
	switch format {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Content:  content,
			Filename: fmt.Sprintf("day-sheet-%s-%s.csv", workshopID, day),
			MIMEType: "text/csv",
		}, nil
	default:
		title := fmt.Sprintf("%s day sheet %s", workshop.Name, day)
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Content:  content,
			Filename: fmt.Sprintf("day-sheet-%s-%s.pdf", workshopID, day),
			MIMEType: "application/pdf",
		}, nil
	}
}

func (s *ExportService) mechanicNames(ctx context.Context, workshopID string) (map[string]string, error) {
	mechanics, err := s.mechanics.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mechanics")
	}
	names := make(map[string]string, len(mechanics))
	for _, mechanic := range mechanics {
		names[mechanic.ID] = mechanic.FullName
	}
	return names, nil
}
