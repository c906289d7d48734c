package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type greetingResponse struct {
	Message string `json:"message"`
}

// GreetingHandler отдает фиксированный JSON для /api/hello.
type GreetingHandler struct {
	body []byte
}

// NewGreetingHandler кодирует ответ один раз; дальше он не меняется.
func NewGreetingHandler(message string) *GreetingHandler {
	body, err := json.Marshal(greetingResponse{Message: message})
	if err != nil {
		// string всегда сериализуется
		panic("encode greeting: " + err.Error())
	}
	return &GreetingHandler{body: body}
}

// Hello возвращает {"message": "..."}
func (h *GreetingHandler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(h.body)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(h.body)
}
