package posapi

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"posgate/internal/auth"
)

// RegisterRoutes вешает публичные маршруты (логин, регистрация, чтение
// пользователей) и защищённые Bearer-токеном маршруты на r. Пути-коллекции
// отвечают и со слешем, и без него, без редиректа.
func RegisterRoutes(r *mux.Router, h *Handler, v auth.Verifier) {
	pub := r.NewRoute().Subrouter().StrictSlash(false)
	pub.HandleFunc("/token", h.Login).Methods(http.MethodPost)
	pub.HandleFunc("/auth/token", h.Login).Methods(http.MethodPost)
	collection(pub, "/users/", h.ListUsers, http.MethodGet)
	pub.HandleFunc("/users/create/user", h.CreateUser).Methods(http.MethodPost)
	collection(pub, "/users/user/", h.GetUserByQuery, http.MethodGet)
	pub.HandleFunc("/users/{user_id:[0-9]+}", h.GetUser).Methods(http.MethodGet)

	priv := r.NewRoute().Subrouter().StrictSlash(false)
	priv.Use(auth.RequireIdentity(v))

	priv.HandleFunc("/users/update_my_password", h.UpdateMyPassword).Methods(http.MethodPut)
	priv.HandleFunc("/users/delete_me", h.DeleteMe).Methods(http.MethodDelete)

	collection(priv, "/organizations/", h.Organizations, http.MethodPost)
	priv.HandleFunc("/organizations/create", h.CreateOrganization).Methods(http.MethodPost)

	collection(priv, "/terminal_groups/", h.TerminalGroups, http.MethodPost)
	priv.HandleFunc("/terminal_groups/is_alive", h.IsAlive).Methods(http.MethodPost)
	priv.HandleFunc("/terminal_groups/create", h.CreateTerminalGroup).Methods(http.MethodPost)

	dict := priv.PathPrefix("/dictionaries").Subrouter()
	collection(dict, "/cancel_causes/", h.CancelCauses(), http.MethodPost)
	dict.HandleFunc("/cancel_causes/create", h.CreateCancelCause).Methods(http.MethodPost)
	collection(dict, "/order_types/", h.OrderTypes(), http.MethodPost)
	dict.HandleFunc("/order_types/create", h.CreateOrderType).Methods(http.MethodPost)
	collection(dict, "/discounts/", h.Discounts(), http.MethodPost)
	dict.HandleFunc("/discounts/create", h.CreateDiscount).Methods(http.MethodPost)
	collection(dict, "/payment_types/", h.PaymentTypes(), http.MethodPost)
	dict.HandleFunc("/payment_types/create", h.CreatePaymentType).Methods(http.MethodPost)

	collection(priv, "/orders/", h.CreateOrder, http.MethodPost)
	priv.HandleFunc("/orders/by_id", h.OrdersByID).Methods(http.MethodPost)
	priv.HandleFunc("/orders/change_payments", h.ChangePayments).Methods(http.MethodPost)
	priv.HandleFunc("/orders/{organization_id:[0-9]+}/{order_id:[0-9]+}", h.GetOrder).Methods(http.MethodGet)

	priv.HandleFunc("/notifications/send", h.SendNotification).Methods(http.MethodPost)
}

// collection вешает f на path и на path без завершающего слеша.
func collection(r *mux.Router, path string, f http.HandlerFunc, method string) {
	r.HandleFunc(path, f).Methods(method)
	r.HandleFunc(strings.TrimSuffix(path, "/"), f).Methods(method)
}
