package dto

import (
	"maitred/internal/domains/table/model"
	"maitred/shared"
	gDto "maitred/shared/dto"
	gModel "maitred/shared/model"
	"maitred/shared/timezone"

	"github.com/google/uuid"
)

type CreateTableRequest struct {
	Number   string `json:"number"   validate:"required,max=20"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Location string `json:"location" validate:"omitempty,max=100"`
	Active   *bool  `json:"active"   validate:"omitempty"`
}

func (c *CreateTableRequest) ToModel(operator string) model.Table {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Table{
		ID:       uuid.NewString(),
		Number:   c.Number,
		Capacity: c.Capacity,
		Location: c.Location,
		Status:   model.StatusAvailable,
		Active:   active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  operator,
			ModifiedBy: operator,
		},
	}
}

type UpdateTableRequest struct {
	Number   string `db:"table_number" json:"number"   validate:"omitempty,max=20"`
	Capacity *int   `db:"capacity"     json:"capacity" validate:"omitempty,min=1"`
	Location string `db:"location"     json:"location" validate:"omitempty,max=100"`
	Active   *bool  `db:"active"       json:"active"   validate:"omitempty"`
}

type UpdateTableStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied reserved being_cleaned"`
}

type TableResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	Status   string `json:"status"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *TableResponse) FromModel(model model.Table) {
	r.ID = model.ID
	r.Number = model.Number
	r.Capacity = model.Capacity
	r.Location = model.Location
	r.Status = model.Status
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetTablesResponse struct {
	Tables    []TableResponse `json:"tables"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetTablesResponse) FromModels(models []model.Table, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tables = make([]TableResponse, len(models))
	for i, mod := range models {
		r.Tables[i].FromModel(mod)
	}
}
