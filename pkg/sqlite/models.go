package sqlite

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

// User is an application user that records are attributed to
type User struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null;default:''"`
	Role      string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string { return "app_user" }

type Worker struct {
	ID           string                   `gorm:"primaryKey"`
	FirstName    string                   `gorm:"not null"`
	LastName     string                   `gorm:"not null"`
	Skills       []string                 `gorm:"serializer:json"`
	HourlyRate   decimal.Decimal          `gorm:"type:numeric;not null;default:0"`
	Status       string                   `gorm:"not null;default:'available';index"`
	StatusReason string                   `gorm:"not null;default:''"`
	Availability model.WeeklyAvailability `gorm:"serializer:json"`
	UpdatedAt    time.Time                `gorm:"autoUpdateTime"`
}

func (Worker) TableName() string { return "worker" }

type ClientOrg struct {
	ID                 string   `gorm:"primaryKey"`
	Name               string   `gorm:"not null"`
	Active             bool     `gorm:"not null;index"`
	Industry           string   `gorm:"not null;default:''"`
	PreferredPositions []string `gorm:"serializer:json"`
}

func (ClientOrg) TableName() string { return "client_org" }

type Contract struct {
	ID             string          `gorm:"primaryKey"`
	Number         string          `gorm:"uniqueIndex;not null"`
	WorkerID       string          `gorm:"not null;index"`
	ClientID       string          `gorm:"not null"`
	Position       string          `gorm:"not null"`
	StartDate      time.Time       `gorm:"type:date;not null"`
	EndDate        time.Time       `gorm:"type:date;not null"`
	Status         string          `gorm:"not null"`
	HourlyRate     decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	MaxWeeklyHours int             `gorm:"not null;default:0"`
	ShiftType      string          `gorm:"not null"`
	CreatedBy      string          `gorm:"not null"`
	Generated      bool            `gorm:"not null;index"`
}

func (Contract) TableName() string { return "contract" }

type ShiftRecord struct {
	ID              string    `gorm:"primaryKey"`
	WorkerID        string    `gorm:"not null;uniqueIndex:idx_worker_date"`
	ClientID        string    `gorm:"not null"`
	ContractID      string    `gorm:"not null;index"`
	ShiftDate       time.Time `gorm:"type:date;not null;uniqueIndex:idx_worker_date"`
	StartTime       string    `gorm:"not null"`
	EndTime         string    `gorm:"not null"`
	CrossesMidnight bool      `gorm:"not null;default:false"`
	Status          string    `gorm:"not null"`
	Note            string    `gorm:"not null;default:''"`
	WeeklyHours     int       `gorm:"not null;default:0"`
	CreatedBy       string    `gorm:"not null"`
}

func (ShiftRecord) TableName() string { return "shift_record" }

func toWorker(w Worker) model.Worker {
	return model.Worker{
		ID:           w.ID,
		FirstName:    w.FirstName,
		LastName:     w.LastName,
		Skills:       w.Skills,
		HourlyRate:   w.HourlyRate,
		Status:       model.WorkerStatus(w.Status),
		StatusReason: w.StatusReason,
		Availability: w.Availability,
	}
}

func toClient(c ClientOrg) model.ClientOrg {
	return model.ClientOrg{
		ID:                 c.ID,
		Name:               c.Name,
		Active:             c.Active,
		Industry:           c.Industry,
		PreferredPositions: c.PreferredPositions,
	}
}

func fromContract(c model.Contract) Contract {
	return Contract{
		ID:             c.ID,
		Number:         c.Number,
		WorkerID:       c.WorkerID,
		ClientID:       c.ClientID,
		Position:       c.Position,
		StartDate:      c.Interval.Start,
		EndDate:        c.Interval.End,
		Status:         string(c.Status),
		HourlyRate:     c.HourlyRate,
		MaxWeeklyHours: c.MaxWeeklyHours,
		ShiftType:      string(c.ShiftType),
		CreatedBy:      c.CreatedBy,
		Generated:      true,
	}
}

func toContract(c Contract) model.Contract {
	return model.Contract{
		ID:             c.ID,
		Number:         c.Number,
		WorkerID:       c.WorkerID,
		ClientID:       c.ClientID,
		Position:       c.Position,
		Interval:       model.Interval{Start: model.NormalizeDate(c.StartDate), End: model.NormalizeDate(c.EndDate)},
		Status:         model.ContractStatus(c.Status),
		HourlyRate:     c.HourlyRate,
		MaxWeeklyHours: c.MaxWeeklyHours,
		ShiftType:      model.ShiftType(c.ShiftType),
		CreatedBy:      c.CreatedBy,
	}
}

func fromShiftRecord(r model.ShiftRecord) ShiftRecord {
	return ShiftRecord{
		ID:              r.ID,
		WorkerID:        r.WorkerID,
		ClientID:        r.ClientID,
		ContractID:      r.ContractID,
		ShiftDate:       r.Date,
		StartTime:       r.Start.String(),
		EndTime:         r.End.String(),
		CrossesMidnight: r.CrossesMidnight,
		Status:          string(r.Status),
		Note:            r.Note,
		WeeklyHours:     r.WeeklyHours,
		CreatedBy:       r.CreatedBy,
	}
}

func toShiftRecord(r ShiftRecord) (model.ShiftRecord, error) {
	start, err := model.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return model.ShiftRecord{}, err
	}
	end, err := model.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return model.ShiftRecord{}, err
	}
	return model.ShiftRecord{
		ID:              r.ID,
		WorkerID:        r.WorkerID,
		ClientID:        r.ClientID,
		ContractID:      r.ContractID,
		Date:            model.NormalizeDate(r.ShiftDate),
		Start:           start,
		End:             end,
		CrossesMidnight: r.CrossesMidnight,
		Status:          model.ShiftStatus(r.Status),
		Note:            r.Note,
		WeeklyHours:     r.WeeklyHours,
		CreatedBy:       r.CreatedBy,
	}, nil
}
