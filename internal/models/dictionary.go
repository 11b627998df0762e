package models

type PaymentProcessingType string

const (
	PaymentProcessingExternal PaymentProcessingType = "External"
	PaymentProcessingInternal PaymentProcessingType = "Internal"
	PaymentProcessingBoth     PaymentProcessingType = "Both"
)

func (t PaymentProcessingType) Valid() bool {
	switch t {
	case PaymentProcessingExternal, PaymentProcessingInternal, PaymentProcessingBoth:
		return true
	}
	return false
}

type PaymentTypeKind string

const (
	PaymentKindUnknown  PaymentTypeKind = "Unknown"
	PaymentKindCash     PaymentTypeKind = "Cash"
	PaymentKindCard     PaymentTypeKind = "Card"
	PaymentKindCredit   PaymentTypeKind = "Credit"
	PaymentKindWriteoff PaymentTypeKind = "Writeoff"
	PaymentKindVoucher  PaymentTypeKind = "Voucher"
	PaymentKindExternal PaymentTypeKind = "External"
	PaymentKindIikoCard PaymentTypeKind = "Iikocard"
)

func (k PaymentTypeKind) Valid() bool {
	switch k {
	case PaymentKindUnknown, PaymentKindCash, PaymentKindCard, PaymentKindCredit,
		PaymentKindWriteoff, PaymentKindVoucher, PaymentKindExternal, PaymentKindIikoCard:
		return true
	}
	return false
}

type TerminalGroup struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrganizationID uint   `gorm:"index;not null" json:"organization_id"`
	Name           string `gorm:"size:255" json:"name"`
	Address        string `gorm:"size:512" json:"address"`
	Timezone       string `gorm:"size:64" json:"timezone"`
	IsAlive        bool   `gorm:"not null" json:"isAlive"`
}

type OrderType struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	OrganizationID   uint   `gorm:"index;not null" json:"organization_id"`
	Name             string `gorm:"size:255" json:"name"`
	OrderServiceType string `gorm:"size:64" json:"order_service_type"`
	IsDeleted        bool   `gorm:"not null" json:"is_deleted"`
}

type Discount struct {
	ID                      uint                      `gorm:"primaryKey" json:"id"`
	OrganizationID          uint                      `gorm:"index;not null" json:"organization_id"`
	Name                    string                    `gorm:"size:255" json:"name"`
	Percent                 int                       `json:"percent"`
	IsCategorisedDiscount   bool                      `json:"isCategorisedDiscount"`
	Comment                 string                    `gorm:"size:1024" json:"comment"`
	CanBeAppliedSelectively bool                      `json:"canBeAppliedSelectively"`
	MinOrderSum             int                       `json:"minOrderSum"`
	Mode                    string                    `gorm:"size:64" json:"mode"`
	Sum                     int                       `json:"sum"`
	CanApplyByCardNumber    bool                      `json:"canApplyByCardNumber"`
	IsManual                bool                      `json:"isManual"`
	IsCard                  bool                      `json:"isCard"`
	IsAutomatic             bool                      `json:"isAutomatic"`
	IsDeleted               bool                      `json:"isDeleted"`
	ProductCategories       []ProductCategoryDiscount `gorm:"foreignKey:DiscountID" json:"product_category_discounts"`
}

type ProductCategoryDiscount struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DiscountID uint   `gorm:"index;not null" json:"discount_id"`
	Name       string `gorm:"size:255" json:"name"`
	Percent    int    `json:"percent"`
}

type PaymentType struct {
	ID                    uint                  `gorm:"primaryKey" json:"id"`
	OrganizationID        uint                  `gorm:"index;not null" json:"organization_id"`
	Code                  string                `gorm:"size:64" json:"code"`
	Name                  string                `gorm:"size:255" json:"name"`
	Comment               string                `gorm:"size:1024" json:"comment"`
	Combinable            bool                  `json:"combinable"`
	ExternalRevision      int64                 `json:"external_revision"`
	IsDeleted             bool                  `json:"is_deleted"`
	PrintCheque           bool                  `json:"print_cheque"`
	PaymentProcessingType PaymentProcessingType `gorm:"size:16" json:"payment_processing_type"`
	PaymentTypeKind       PaymentTypeKind       `gorm:"size:16" json:"payment_type_kind"`
	Campaigns             []MarketingCampaign   `gorm:"foreignKey:PaymentTypeID" json:"applicable_marketing_campaigns"`
	TerminalGroups        []TerminalGroup       `gorm:"many2many:payment_type_terminal_groups" json:"terminal_groups"`
}

type MarketingCampaign struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	PaymentTypeID uint   `gorm:"index;not null" json:"payment_type_id"`
	Name          string `gorm:"size:255" json:"name"`
}

// Correlation связывает причины отмены с организацией, для которой они заведены.
type Correlation struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OrganizationID uint   `gorm:"index;not null" json:"organization_parent_id"`
	Name           string `gorm:"size:255" json:"name"`
}

type CancelCause struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CorrelationID uint   `gorm:"index;not null" json:"correlation_id"`
	Name          string `gorm:"size:255" json:"name"`
	IsDeleted     bool   `json:"isDeleted"`
}
