package websocket

import (
	"encoding/json"
	"time"
)

// Events exchanged with chat clients. Every frame is {"event": ..., "data": ...}.
const (
	EventAuth           = "auth"
	EventJoinRoom       = "joinRoom"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
	EventError          = "error"
)

type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type AuthData struct {
	Token string `json:"token"`
}

type JoinRoomData struct {
	ChatID string `json:"chatId"`
}

type SendMessageData struct {
	ChatID   string `json:"chatId"`
	SenderID string `json:"senderId"`
	Message  string `json:"message"`
}

type ReceiveMessageData struct {
	ChatID  string `json:"chatId"`
	Sender  string `json:"sender"`
	Role    string `json:"role"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// ClockTime formats a message time the way chat clients display it.
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}

func Encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}

func ErrorFrame(message string) []byte {
	frame, _ := Encode(EventError, ErrorData{Message: message})
	return frame
}
