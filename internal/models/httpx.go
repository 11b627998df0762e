package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes ограничивает размер JSON-тела запроса.
const MaxBodyBytes = 1 << 20

// Problem — ответ об ошибке в стиле RFC 7807.
type Problem struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`            // краткое название
	Status   int    `json:"status"`           // HTTP код
	Detail   string `json:"detail,omitempty"` // подробности, видимые клиенту
	Instance string `json:"instance,omitempty"`
	Extra    any    `json:"extra,omitempty"`
}

func WriteProblem(w http.ResponseWriter, status int, title, detail string, extra any) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Title:  title,
		Status: status,
		Detail: detail,
		Extra:  extra,
	})
}

// WriteUnauthorized отдаёт 401 с заголовком WWW-Authenticate: Bearer.
func WriteUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteProblem(w, http.StatusUnauthorized, "Unauthorized", detail, nil)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Ack — подтверждение мутирующей операции.
type Ack struct {
	Status      int    `json:"status"`
	Transaction string `json:"transaction"`
	ID          *uint  `json:"id,omitempty"`
}

// WriteAck пишет {"status": code, "transaction": "Successful"} c тем же HTTP-кодом.
func WriteAck(w http.ResponseWriter, status int) {
	WriteJSON(w, status, Ack{Status: status, Transaction: "Successful"})
}

// WriteAckID то же, что WriteAck, но с id созданного объекта.
func WriteAckID(w http.ResponseWriter, status int, id uint) {
	WriteJSON(w, status, Ack{Status: status, Transaction: "Successful", ID: &id})
}

// Validator реализуют типы запросов, проверяющие себя после декодирования.
type Validator interface {
	Validate() error
}

// ReadJSON декодирует тело в v и вызывает v.Validate(), если он есть.
// При ошибке сам отвечает 422 и возвращает false.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		WriteValidation(w, fmt.Errorf("malformed request body: %w", err))
		return false
	}
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			WriteValidation(w, err)
			return false
		}
	}
	return true
}

func WriteValidation(w http.ResponseWriter, err error) {
	WriteProblem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error(), nil)
}

func WriteNotFound(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusNotFound, "Not Found", detail, nil)
}
