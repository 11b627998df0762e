package models

import (
	"time"
)

// User — учётная запись. HashedPassword — bcrypt-дайджест, наружу не отдаётся.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Email          *string   `gorm:"uniqueIndex;size:320" json:"email"`
	Username       string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Firstname      string    `gorm:"size:150" json:"firstname"`
	Lastname       string    `gorm:"size:150" json:"lastname"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
}

// Organization — корень владения: остальные POS-ресурсы висят на организации,
// а она хранит id владельца.
type Organization struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
	OwnerID           uint      `gorm:"index;not null" json:"-"`
	Name              string    `gorm:"size:255;not null" json:"name"`
	Country           string    `gorm:"size:128" json:"country,omitempty"`
	RestaurantAddress string    `gorm:"size:512" json:"restaurant_address,omitempty"`
	RMSVersion        string    `gorm:"size:64" json:"rms_version,omitempty"`
	IsDisabled        bool      `gorm:"not null" json:"is_disabled"`
}

// Operation — уведомление во внешние системы от имени пользователя.
type Operation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	OwnerID        uint      `gorm:"index;not null" json:"-"`
	OrganizationID uint      `gorm:"index;not null" json:"organization_id"`
	OrderSource    string    `gorm:"size:255" json:"order_source"`
	OrderID        uint      `json:"order_id"`
	AdditionalInfo string    `gorm:"size:2048" json:"additional_info"`
	MessageType    string    `gorm:"size:64" json:"message_type"`
}

// All — все модели в порядке зависимостей, для AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Organization{},
		&TerminalGroup{},
		&OrderType{},
		&Discount{},
		&ProductCategoryDiscount{},
		&PaymentType{},
		&MarketingCampaign{},
		&Correlation{},
		&CancelCause{},
		&Order{},
		&Payment{},
		&Operation{},
	}
}
