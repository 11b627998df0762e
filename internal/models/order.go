package models

import (
	"time"

	"gorm.io/datatypes"
)

type Gender string

const (
	GenderNotSpecified Gender = "NotSpecified"
	GenderMale         Gender = "Male"
	GenderFemale       Gender = "Female"
)

type CustomerType string

const (
	CustomerRegular CustomerType = "Regular"
	CustomerOneTime CustomerType = "OneTime"
)

func (g Gender) Valid() bool {
	return g == GenderNotSpecified || g == GenderMale || g == GenderFemale
}

func (c CustomerType) Valid() bool {
	return c == CustomerRegular || c == CustomerOneTime
}

// Customer — гость заказа; хранится в заказе одной JSON-колонкой.
type Customer struct {
	Name                                  string       `json:"name,omitempty"`
	Surname                               string       `json:"surname,omitempty"`
	Comment                               string       `json:"comment,omitempty"`
	Birthdate                             string       `json:"birthdate,omitempty"` // YYYY-MM-DD
	Email                                 string       `json:"email,omitempty"`
	ShouldReceiveOrderStatusNotifications bool         `json:"should_receive_order_status_notifications"`
	Gender                                Gender       `json:"gender,omitempty"`
	Type                                  CustomerType `json:"type,omitempty"`
}

const (
	OrderStatusNew     = "New"
	OrderStatusUpdated = "PaymentsChanged"
)

type Order struct {
	ID                      uint                          `gorm:"primaryKey" json:"id"`
	CreatedAt               time.Time                     `json:"created_at"`
	UpdatedAt               time.Time                     `json:"updated_at"`
	OrganizationID          uint                          `gorm:"index;not null" json:"organization_id"`
	TerminalGroupID         uint                          `gorm:"index;not null" json:"terminal_group_id"`
	CorrelationID           string                        `gorm:"size:36;index" json:"correlation_id"`
	ExternalNumber          string                        `gorm:"size:64" json:"external_number,omitempty"`
	TableID                 *uint                         `json:"table_id,omitempty"`
	Phone                   string                        `gorm:"size:40" json:"phone,omitempty"`
	GuestCount              int                           `json:"guest_count"`
	TabName                 string                        `gorm:"size:255" json:"tab_name,omitempty"`
	SourceKey               string                        `gorm:"size:255" json:"source_key,omitempty"`
	OrderTypeID             *uint                         `json:"order_type_id,omitempty"`
	Customer                datatypes.JSONType[*Customer] `json:"customer"`
	TransportToFrontTimeout *int                          `json:"transport_to_front_timeout,omitempty"`
	Status                  string                        `gorm:"size:32" json:"status"`
	Payments                []Payment                     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments"`
}

type Payment struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`
	OrderID                uint            `gorm:"index;not null" json:"-"`
	PaymentTypeKind        PaymentTypeKind `gorm:"size:16" json:"paymentTypeKind"`
	PaymentTypeID          uint            `json:"paymentTypeId"`
	Sum                    float64         `json:"sum"`
	IsProcessedExternally  bool            `json:"isProcessedExternally"`
	IsFiscalizedExternally bool            `json:"isFiscalizedExternally"`
	IsPrepay               bool            `json:"isPrepay"`
}
