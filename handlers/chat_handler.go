package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/database"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/utils"
	"github.com/gurukul/gurukul-backend/websocket"
	"github.com/pkg/errors"
)

type SendMessageRequest struct {
	GuruID    string `json:"guruId"`
	StudentID string `json:"studentId"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
}

// chatMember reports whether the caller takes part in the chat or is an admin.
func chatMember(c *fiber.Ctx, guruID, studentID uuid.UUID) bool {
	return actingAs(c, guruID) || actingAs(c, studentID)
}

// SendMessage stores a message between a guru and a student and pushes it to
// everyone connected to the chat's room.
func SendMessage(hub *websocket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Please provide required fields.")
		}
		if req.GuruID == "" || req.StudentID == "" || req.Sender == "" {
			return utils.Fail(c, fiber.StatusBadRequest, "Please provide required fields.")
		}
		guruID, errG := uuid.Parse(req.GuruID)
		studentID, errS := uuid.Parse(req.StudentID)
		if errG != nil || errS != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "Invalid given data.")
		}

		var senderID uuid.UUID
		switch req.Sender {
		case models.RoleGuru:
			senderID = guruID
		case models.RoleStudent:
			senderID = studentID
		default:
			return utils.Fail(c, fiber.StatusBadRequest, `Sender must be "guru" or "student".`)
		}
		if strings.TrimSpace(req.Message) == "" {
			return utils.Fail(c, fiber.StatusBadRequest, "Message must be a non-empty string.")
		}
		if !actingAs(c, senderID) {
			return utils.Fail(c, fiber.StatusForbidden, "Forbidden: you can only send messages as yourself")
		}

		chat, msg, err := services.SendMessage(db(c), guruID, studentID, req.Sender, req.Message)
		if errors.Is(err, services.ErrEmptyMessage) {
			return utils.Fail(c, fiber.StatusBadRequest, "Message must be a non-empty string.")
		}
		if err != nil {
			logFailure(c, err)
			return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
		}

		if err := hub.Publish(c.UserContext(), chat.Room(), nil, websocket.EventReceiveMessage, websocket.ReceiveMessageData{
			ChatID:  chat.ID.String(),
			Sender:  senderID.String(),
			Role:    msg.Sender,
			Message: msg.Message,
			Time:    websocket.ClockTime(msg.Timestamp),
		}); err != nil {
			log.Printf("⚠️ Could not broadcast message in chat %s: %v", chat.ID, err)
		}

		return utils.Send(c, fiber.StatusCreated, "Message sent successfully.", chat)
	}
}

// GetChat returns the conversation between ?guruId and ?studentId.
func GetChat(c *fiber.Ctx) error {
	rawGuru, rawStudent := c.Query("guruId"), c.Query("studentId")
	if rawGuru == "" || rawStudent == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "guruId and studentId are required.")
	}
	guruID, errG := uuid.Parse(rawGuru)
	studentID, errS := uuid.Parse(rawStudent)
	if errG != nil || errS != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid guruId or studentId.")
	}
	if !chatMember(c, guruID, studentID) {
		return utils.Fail(c, fiber.StatusForbidden, "Forbidden: you are not part of this chat")
	}

	chat, err := services.GetChat(db(c), guruID, studentID)
	if errors.Is(err, services.ErrChatNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "No chat found between the guru and student.")
	}
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "Chat retrieved successfully.", chat.Populated())
}

func DeleteMessage(c *fiber.Ctx) error {
	chatID, okC := paramID(c, "chatId")
	messageID, okM := paramID(c, "messageId")
	if !okC || !okM {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid chatId or messageId.")
	}

	chat, err := services.FindChat(db(c), chatID)
	if errors.Is(err, services.ErrChatNotFound) {
		return utils.Fail(c, fiber.StatusNotFound, "Chat not found.")
	}
	if err != nil {
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	if !chatMember(c, chat.GuruID, chat.StudentID) {
		return utils.Fail(c, fiber.StatusForbidden, "Forbidden: you are not part of this chat")
	}

	err = services.DeleteMessage(db(c), chatID, messageID)
	switch {
	case errors.Is(err, services.ErrChatNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "Chat not found.")
	case errors.Is(err, services.ErrMessageNotFound):
		return utils.Fail(c, fiber.StatusNotFound, "Message not found.")
	case err != nil:
		logFailure(c, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Server error")
	}
	return utils.Send(c, fiber.StatusOK, "Message deleted successfully.", nil)
}

// ServeWs runs one chat connection. The first frame must be an auth event carrying
// a login token; after that the client may join chat rooms and send messages.
func ServeWs(hub *websocket.Hub) func(*websocketcontrib.Conn) {
	return func(conn *websocketcontrib.Conn) {
		defer conn.Close()

		who, err := authenticateSocket(conn)
		if err != nil {
			log.Printf("WebSocket auth failed: %v", err)
			_ = conn.WriteMessage(websocketcontrib.TextMessage, websocket.ErrorFrame("Authentication required"))
			return
		}

		client := websocket.NewClient(who.ID, who.Role)
		hub.Register(client)
		go client.WritePump(conn)
		defer func() {
			hub.Unregister(client)
			<-client.Done()
		}()
		log.Printf("WebSocket client %s connected as %s", who.ID, who.Role)

		for {
			var frame websocket.Frame
			if err := conn.ReadJSON(&frame); err != nil {
				if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
					log.Printf("WebSocket closed for client %s", who.ID)
				} else {
					log.Printf("WebSocket read error for client %s: %v", who.ID, err)
				}
				return
			}

			switch frame.Event {
			case websocket.EventJoinRoom:
				joinRoom(hub, client, frame.Data)
			case websocket.EventSendMessage:
				relayMessage(hub, client, frame.Data)
			default:
				hub.Reply(client, websocket.ErrorFrame("Unknown event"))
			}
		}
	}
}

func authenticateSocket(conn *websocketcontrib.Conn) (services.Identity, error) {
	var frame websocket.Frame
	if err := conn.ReadJSON(&frame); err != nil {
		return services.Identity{}, errors.Wrap(err, "read auth frame")
	}
	if frame.Event != websocket.EventAuth {
		return services.Identity{}, errors.Errorf("expected %s event, got %q", websocket.EventAuth, frame.Event)
	}
	var auth websocket.AuthData
	if err := json.Unmarshal(frame.Data, &auth); err != nil || auth.Token == "" {
		return services.Identity{}, errors.New("missing token")
	}
	claims, err := services.ParseToken(auth.Token)
	if err != nil {
		return services.Identity{}, err
	}
	return services.IdentityFromClaims(claims)
}

func joinRoom(hub *websocket.Hub, client *websocket.Client, raw json.RawMessage) {
	var data websocket.JoinRoomData
	if err := json.Unmarshal(raw, &data); err != nil {
		hub.Reply(client, websocket.ErrorFrame("Invalid joinRoom payload"))
		return
	}
	chatID, err := uuid.Parse(data.ChatID)
	if err != nil {
		hub.Reply(client, websocket.ErrorFrame("Invalid chatId"))
		return
	}

	chat, err := services.FindChat(database.DB, chatID)
	if errors.Is(err, services.ErrChatNotFound) {
		hub.Reply(client, websocket.ErrorFrame("Chat not found"))
		return
	}
	if err != nil {
		log.Printf("🔥 joinRoom %s: %v", chatID, err)
		hub.Reply(client, websocket.ErrorFrame("Server error"))
		return
	}
	if client.Role != models.RoleAdmin && !chat.HasMember(client.UserID) {
		hub.Reply(client, websocket.ErrorFrame("You are not part of this chat"))
		return
	}
	hub.Join(client, chat.Room())
}

func relayMessage(hub *websocket.Hub, client *websocket.Client, raw json.RawMessage) {
	var data websocket.SendMessageData
	if err := json.Unmarshal(raw, &data); err != nil {
		hub.Reply(client, websocket.ErrorFrame("Invalid sendMessage payload"))
		return
	}
	chatID, errC := uuid.Parse(data.ChatID)
	senderID, errS := uuid.Parse(data.SenderID)
	if errC != nil || errS != nil {
		hub.Reply(client, websocket.ErrorFrame("Invalid chatId or senderId"))
		return
	}
	if senderID != client.UserID {
		hub.Reply(client, websocket.ErrorFrame("senderId does not match the authenticated user"))
		return
	}

	chat, msg, err := services.SendToChat(database.DB, chatID, senderID, data.Message)
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		hub.Reply(client, websocket.ErrorFrame("Message must be a non-empty string"))
		return
	case errors.Is(err, services.ErrChatNotFound):
		hub.Reply(client, websocket.ErrorFrame("Chat not found"))
		return
	case errors.Is(err, services.ErrNotChatMember):
		hub.Reply(client, websocket.ErrorFrame("You are not part of this chat"))
		return
	case err != nil:
		log.Printf("🔥 sendMessage in chat %s: %v", chatID, err)
		hub.Reply(client, websocket.ErrorFrame("Server error"))
		return
	}

	if err := hub.Publish(context.Background(), chat.Room(), client, websocket.EventReceiveMessage, websocket.ReceiveMessageData{
		ChatID:  chat.ID.String(),
		Sender:  senderID.String(),
		Role:    msg.Sender,
		Message: msg.Message,
		Time:    websocket.ClockTime(msg.Timestamp),
	}); err != nil {
		log.Printf("⚠️ Could not broadcast message in chat %s: %v", chat.ID, err)
	}
}
