package posapi

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"posgate/internal/auth"
	"posgate/internal/models"
)

func required(field string) error { return fmt.Errorf("%s: field required", field) }

func checkPassword(field, p string) error {
	if p == "" {
		return required(field)
	}
	if len(p) > auth.MaxPasswordBytes {
		return fmt.Errorf("%s: must be at most %d bytes", field, auth.MaxPasswordBytes)
	}
	return nil
}

// MaxListLen — предел длины списков id и оплат в одном запросе.
const MaxListLen = 1000

func checkList(field string, n int) error {
	if n > MaxListLen {
		return fmt.Errorf("%s: at most %d items", field, MaxListLen)
	}
	return nil
}

// ---------- auth / users ----------

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Username == "" {
		return required("username")
	}
	if r.Password == "" {
		return required("password")
	}
	return nil
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CreateUserRequest struct {
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Password  string  `json:"password"`
}

func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	switch {
	case r.Username == "":
		return required("username")
	case len(r.Username) > 150:
		return errors.New("username: too long")
	}
	if r.Email != nil {
		if *r.Email == "" {
			r.Email = nil
		} else if _, err := mail.ParseAddress(*r.Email); err != nil {
			return fmt.Errorf("email: %w", err)
		}
	}
	return checkPassword("password", r.Password)
}

type UpdatePasswordRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

func (r *UpdatePasswordRequest) Validate() error {
	if r.Username == "" {
		return required("username")
	}
	if r.Password == "" {
		return required("password")
	}
	return checkPassword("new_password", r.NewPassword)
}

// ---------- organizations ----------

type OrganizationsRequest struct {
	OrganizationIDs      []uint `json:"organization_ids"`
	ReturnAdditionalInfo *bool  `json:"return_additional_info"`
	IncludeDisabled      *bool  `json:"include_disabled"`
}

func (r *OrganizationsRequest) Validate() error {
	switch {
	case r.OrganizationIDs == nil:
		return required("organization_ids")
	case r.ReturnAdditionalInfo == nil:
		return required("return_additional_info")
	case r.IncludeDisabled == nil:
		return required("include_disabled")
	}
	return checkList("organization_ids", len(r.OrganizationIDs))
}

// OrganizationShort — ответ при return_additional_info=false.
type OrganizationShort struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateOrganizationRequest struct {
	Name              string `json:"name"`
	Country           string `json:"country"`
	RestaurantAddress string `json:"restaurant_address"`
	RMSVersion        string `json:"rms_version"`
	IsDisabled        bool   `json:"is_disabled"`
}

func (r *CreateOrganizationRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return required("name")
	}
	return nil
}

// ---------- terminal groups ----------

type TerminalGroupsRequest struct {
	OrganizationIDs      []uint `json:"organization_ids"`
	ReturnAdditionalInfo *bool  `json:"return_additional_info"`
}

func (r *TerminalGroupsRequest) Validate() error {
	if r.OrganizationIDs == nil {
		return required("organization_ids")
	}
	return checkList("organization_ids", len(r.OrganizationIDs))
}

type TerminalGroupItem struct {
	ID             uint   `json:"id"`
	OrganizationID uint   `json:"organization_id"`
	Name           string `json:"name"`
	Address        string `json:"address,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
}

type TerminalGroupsByOrganization struct {
	OrganizationID uint                `json:"organization_id"`
	Items          []TerminalGroupItem `json:"items"`
}

type TerminalGroupsResponse struct {
	TerminalGroups []TerminalGroupsByOrganization `json:"terminal_groups"`
}

type IsAliveRequest struct {
	OrganizationID   *uint  `json:"organization_id"` // устарело, см. organization_ids
	OrganizationIDs  []uint `json:"organization_ids"`
	TerminalGroupIDs []uint `json:"terminal_group_ids"`
}

func (r *IsAliveRequest) Validate() error {
	if r.TerminalGroupIDs == nil {
		return required("terminal_group_ids")
	}
	if r.OrganizationID == nil && r.OrganizationIDs == nil {
		return required("organization_ids")
	}
	if err := checkList("terminal_group_ids", len(r.TerminalGroupIDs)); err != nil {
		return err
	}
	return checkList("organization_ids", len(r.OrganizationIDs))
}

// orgIDs сливает устаревший organization_id со списком.
func (r *IsAliveRequest) orgIDs() []uint {
	ids := append([]uint(nil), r.OrganizationIDs...)
	if r.OrganizationID != nil {
		ids = append(ids, *r.OrganizationID)
	}
	return ids
}

type IsAliveStatus struct {
	IsAlive         bool `json:"is_alive"`
	TerminalGroupID uint `json:"terminal_group_id"`
	OrganizationID  uint `json:"organization_id"`
}

type IsAliveResponse struct {
	IsAliveStatus []IsAliveStatus `json:"is_alive_status"`
}

type CreateTerminalGroupRequest struct {
	OrganizationID uint   `json:"organization_id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Timezone       string `json:"timezone"`
	IsAlive        bool   `json:"is_alive"`
}

func (r *CreateTerminalGroupRequest) Validate() error {
	if r.OrganizationID == 0 {
		return required("organization_id")
	}
	if strings.TrimSpace(r.Name) == "" {
		return required("name")
	}
	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}
	return nil
}

// ---------- dictionaries ----------

// OrganizationIDsRequest — общее тело для выборок справочников.
type OrganizationIDsRequest struct {
	OrganizationIDs []uint `json:"organization_ids"`
}

func (r *OrganizationIDsRequest) Validate() error {
	if r.OrganizationIDs == nil {
		return required("organization_ids")
	}
	return checkList("organization_ids", len(r.OrganizationIDs))
}

type CreateOrderTypeRequest struct {
	OrganizationID   uint   `json:"organization_id"`
	Name             string `json:"name"`
	OrderServiceType string `json:"order_service_type"`
}

func (r *CreateOrderTypeRequest) Validate() error {
	if r.OrganizationID == 0 {
		return required("organization_id")
	}
	if strings.TrimSpace(r.Name) == "" {
		return required("name")
	}
	return nil
}

type CategoryInput struct {
	Name    string `json:"name"`
	Percent int    `json:"percent"`
}

type CreateDiscountRequest struct {
	OrganizationID          uint            `json:"organization_id"`
	Name                    string          `json:"name"`
	Percent                 int             `json:"percent"`
	IsCategorisedDiscount   bool            `json:"isCategorisedDiscount"`
	Comment                 string          `json:"comment"`
	CanBeAppliedSelectively bool            `json:"canBeAppliedSelectively"`
	MinOrderSum             int             `json:"minOrderSum"`
	Mode                    string          `json:"mode"`
	Sum                     int             `json:"sum"`
	CanApplyByCardNumber    bool            `json:"canApplyByCardNumber"`
	IsManual                bool            `json:"isManual"`
	IsCard                  bool            `json:"isCard"`
	IsAutomatic             bool            `json:"isAutomatic"`
	ProductCategories       []CategoryInput `json:"product_category_discounts"`
}

func (r *CreateDiscountRequest) Validate() error {
	if r.OrganizationID == 0 {
		return required("organization_id")
	}
	if strings.TrimSpace(r.Name) == "" {
		return required("name")
	}
	if r.Percent < 0 || r.Percent > 100 {
		return errors.New("percent: must be within [0, 100]")
	}
	for i, c := range r.ProductCategories {
		if c.Percent < 0 || c.Percent > 100 {
			return fmt.Errorf("product_category_discounts[%d].percent: must be within [0, 100]", i)
		}
	}
	return nil
}

func (r *CreateDiscountRequest) model() *models.Discount {
	d := &models.Discount{
		OrganizationID:          r.OrganizationID,
		Name:                    r.Name,
		Percent:                 r.Percent,
		IsCategorisedDiscount:   r.IsCategorisedDiscount,
		Comment:                 r.Comment,
		CanBeAppliedSelectively: r.CanBeAppliedSelectively,
		MinOrderSum:             r.MinOrderSum,
		Mode:                    r.Mode,
		Sum:                     r.Sum,
		CanApplyByCardNumber:    r.CanApplyByCardNumber,
		IsManual:                r.IsManual,
		IsCard:                  r.IsCard,
		IsAutomatic:             r.IsAutomatic,
	}
	for _, c := range r.ProductCategories {
		d.ProductCategories = append(d.ProductCategories, models.ProductCategoryDiscount{Name: c.Name, Percent: c.Percent})
	}
	return d
}

type CreatePaymentTypeRequest struct {
	OrganizationID        uint                         `json:"organization_id"`
	Code                  string                       `json:"code"`
	Name                  string                       `json:"name"`
	Comment               string                       `json:"comment"`
	Combinable            bool                         `json:"combinable"`
	ExternalRevision      int64                        `json:"external_revision"`
	PrintCheque           bool                         `json:"print_cheque"`
	PaymentProcessingType models.PaymentProcessingType `json:"payment_processing_type"`
	PaymentTypeKind       models.PaymentTypeKind       `json:"payment_type_kind"`
	Campaigns             []string                     `json:"applicable_marketing_campaigns"`
	TerminalGroupIDs      []uint                       `json:"terminal_group_ids"`
}

func (r *CreatePaymentTypeRequest) Validate() error {
	if r.OrganizationID == 0 {
		return required("organization_id")
	}
	if strings.TrimSpace(r.Name) == "" {
		return required("name")
	}
	if r.PaymentProcessingType == "" {
		r.PaymentProcessingType = models.PaymentProcessingExternal
	}
	if r.PaymentTypeKind == "" {
		r.PaymentTypeKind = models.PaymentKindCash
	}
	if !r.PaymentProcessingType.Valid() {
		return fmt.Errorf("payment_processing_type: unknown value %q", r.PaymentProcessingType)
	}
	if !r.PaymentTypeKind.Valid() {
		return fmt.Errorf("payment_type_kind: unknown value %q", r.PaymentTypeKind)
	}
	for i, tg := range r.TerminalGroupIDs {
		if tg == 0 {
			return fmt.Errorf("terminal_group_ids[%d]: must be a positive id", i)
		}
	}
	return checkList("terminal_group_ids", len(r.TerminalGroupIDs))
}

func (r *CreatePaymentTypeRequest) model() *models.PaymentType {
	pt := &models.PaymentType{
		OrganizationID:        r.OrganizationID,
		Code:                  r.Code,
		Name:                  r.Name,
		Comment:               r.Comment,
		Combinable:            r.Combinable,
		ExternalRevision:      r.ExternalRevision,
		PrintCheque:           r.PrintCheque,
		PaymentProcessingType: r.PaymentProcessingType,
		PaymentTypeKind:       r.PaymentTypeKind,
	}
	for _, name := range r.Campaigns {
		pt.Campaigns = append(pt.Campaigns, models.MarketingCampaign{Name: name})
	}
	return pt
}

type CreateCancelCauseRequest struct {
	OrganizationID uint   `json:"organization_id"`
	Correlation    string `json:"correlation"`
	Name           string `json:"name"`
}

func (r *CreateCancelCauseRequest) Validate() error {
	if r.OrganizationID == 0 {
		return required("organization_id")
	}
	if strings.TrimSpace(r.Name) == "" {
		return required("name")
	}
	return nil
}

// ---------- orders ----------

type PaymentInput struct {
	PaymentTypeKind        models.PaymentTypeKind `json:"paymentTypeKind"`
	PaymentTypeID          uint                   `json:"paymentTypeId"`
	Sum                    *float64               `json:"sum"`
	IsProcessedExternally  bool                   `json:"isProcessedExternally"`
	IsFiscalizedExternally bool                   `json:"isFiscalizedExternally"`
	IsPrepay               bool                   `json:"isPrepay"`
}

func validatePayments(ps []PaymentInput) error {
	if err := checkList("payments", len(ps)); err != nil {
		return err
	}
	for i, p := range ps {
		if !p.PaymentTypeKind.Valid() {
			return fmt.Errorf("payments[%d].paymentTypeKind: unknown value %q", i, p.PaymentTypeKind)
		}
		if p.Sum == nil {
			return required(fmt.Sprintf("payments[%d].sum", i))
		}
		if *p.Sum < 0 {
			return fmt.Errorf("payments[%d].sum: must not be negative", i)
		}
	}
	return nil
}

func paymentModels(ps []PaymentInput) []models.Payment {
	out := make([]models.Payment, 0, len(ps))
	for _, p := range ps {
		out = append(out, models.Payment{
			PaymentTypeKind:        p.PaymentTypeKind,
			PaymentTypeID:          p.PaymentTypeID,
			Sum:                    *p.Sum,
			IsProcessedExternally:  p.IsProcessedExternally,
			IsFiscalizedExternally: p.IsFiscalizedExternally,
			IsPrepay:               p.IsPrepay,
		})
	}
	return out
}

func paymentTypeIDs(ps []PaymentInput) []uint {
	ids := make([]uint, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.PaymentTypeID)
	}
	return ids
}

type OrderInput struct {
	ExternalNumber string           `json:"external_number"`
	TableID        *uint            `json:"table_id"`
	Customer       *models.Customer `json:"customer"`
	Phone          string           `json:"phone"`
	GuestCount     *int             `json:"guest_count"`
	TabName        string           `json:"tab_name"`
	SourceKey      string           `json:"source_key"`
	OrderTypeID    *uint            `json:"order_type_id"`
	Payments       []PaymentInput   `json:"payments"`
}

type OrderSettings struct {
	TransportToFrontTimeout *int `json:"transport_to_front_timeout"`
}

type CreateOrderRequest struct {
	OrganizationID      uint           `json:"organization_id"`
	TerminalGroupID     uint           `json:"terminal_group_id"`
	Order               *OrderInput    `json:"order"`
	CreateOrderSettings *OrderSettings `json:"create_order_settings"`
}

func (r *CreateOrderRequest) Validate() error {
	switch {
	case r.OrganizationID == 0:
		return required("organization_id")
	case r.TerminalGroupID == 0:
		return required("terminal_group_id")
	case r.Order == nil:
		return required("order")
	}
	if g := r.Order.GuestCount; g != nil && *g < 0 {
		return errors.New("order.guest_count: must not be negative")
	}
	if c := r.Order.Customer; c != nil {
		if c.Gender == "" {
			c.Gender = models.GenderNotSpecified
		}
		if c.Type == "" {
			c.Type = models.CustomerOneTime
		}
		if !c.Gender.Valid() {
			return fmt.Errorf("order.customer.gender: unknown value %q", c.Gender)
		}
		if !c.Type.Valid() {
			return fmt.Errorf("order.customer.type: unknown value %q", c.Type)
		}
		if c.Birthdate != "" {
			if _, err := time.Parse(time.DateOnly, c.Birthdate); err != nil {
				return fmt.Errorf("order.customer.birthdate: %w", err)
			}
		}
	}
	if s := r.CreateOrderSettings; s != nil && s.TransportToFrontTimeout != nil && *s.TransportToFrontTimeout < 0 {
		return errors.New("create_order_settings.transport_to_front_timeout: must not be negative")
	}
	return validatePayments(r.Order.Payments)
}

type OrdersByIDRequest struct {
	OrganizationID uint   `json:"organization_id"`
	OrderIDs       []uint `json:"order_ids"`
}

func (r *OrdersByIDRequest) Validate() error {
	if r.OrganizationID == 0 {
		return required("organization_id")
	}
	if r.OrderIDs == nil {
		return required("order_ids")
	}
	return checkList("order_ids", len(r.OrderIDs))
}

type ChangePaymentsRequest struct {
	OrganizationID uint           `json:"organization_id"`
	OrderID        uint           `json:"order_id"`
	Payments       []PaymentInput `json:"payments"`
}

func (r *ChangePaymentsRequest) Validate() error {
	switch {
	case r.OrganizationID == 0:
		return required("organization_id")
	case r.OrderID == 0:
		return required("order_id")
	case r.Payments == nil:
		return required("payments")
	}
	return validatePayments(r.Payments)
}

// ---------- notifications ----------

type NotificationRequest struct {
	OrderSource    string `json:"order_source"`
	OrderID        *uint  `json:"order_id"`
	AdditionalInfo string `json:"additional_info"`
	MessageType    string `json:"message_type"`
	OrganizationID uint   `json:"organization_id"`
}

// DefaultMessageType — тип уведомления по умолчанию.
const DefaultMessageType = "order_attentions"

func (r *NotificationRequest) Validate() error {
	switch {
	case r.OrderSource == "":
		return required("order_source")
	case r.OrderID == nil:
		return required("order_id")
	case r.OrganizationID == 0:
		return required("organization_id")
	}
	if r.MessageType == "" {
		r.MessageType = DefaultMessageType
	}
	return nil
}

type NotificationResponse struct {
	ID uint `json:"id"`
}
