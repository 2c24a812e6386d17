package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	waTypes "go.mau.fi/whatsmeow/types"
	waEvents "go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver for whatsmeow store
)

type WhatsAppService struct {
	client *whatsmeow.Client
	log    *zap.Logger
}

func NewWhatsAppService(storePath string, log *zap.Logger) (*WhatsAppService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("initializing whatsapp service", zap.String("store_path", storePath))

	container, err := sqlstore.New(context.Background(), "sqlite",
		fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=foreign_keys=on", storePath),
		waLog.Stdout("SQLStore", "INFO", true))
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlstore: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(context.Background())
	if err != nil {
		log.Info("no existing device, creating new one", zap.Error(err))
		deviceStore = container.NewDevice()
	}

	client := whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true))
	service := &WhatsAppService{client: client, log: log}

	client.AddEventHandler(func(evt interface{}) {
		switch v := evt.(type) {
		case *waEvents.Connected:
			log.Info("whatsapp connected")
		case *waEvents.Disconnected:
			log.Warn("whatsapp disconnected", zap.Any("event", v))
		case *waEvents.LoggedOut:
			log.Warn("whatsapp logged out")
		}
	})

	if client.Store.ID == nil {
		// First login: print QR to pair
		log.Info("no session found, starting QR pairing")
		qr, _ := client.GetQRChannel(context.Background())
		if err = client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}
		for evt := range qr {
			if evt.Event == "code" {
				fmt.Println("Scan this QR code in WhatsApp to pair:")
				qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			} else {
				log.Info("qr event", zap.String("event", evt.Event))
			}
		}
	} else {
		log.Info("existing session found", zap.String("device_id", client.Store.ID.String()))
		if err = client.Connect(); err != nil {
			return nil, fmt.Errorf("failed to connect with existing session: %w", err)
		}
	}

	return service, nil
}

func (w *WhatsAppService) SendMessage(ctx context.Context, phone, message string) error {
	if !w.client.IsConnected() {
		return fmt.Errorf("WhatsApp client is not connected")
	}

	to := waTypes.NewJID(normalizePhone(phone), waTypes.DefaultUserServer)
	msg := &waProto.Message{Conversation: &message}

	// Signal sessions occasionally need a moment to establish; retry
	// transient encryption failures, nothing else.
	var err error
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err = w.client.SendMessage(ctx, to, msg)
		if err == nil {
			return nil
		}
		errText := err.Error()
		if !strings.Contains(errText, "can't encrypt message") &&
			!strings.Contains(errText, "no signal session established") {
			break
		}
		w.log.Warn("encryption error, retrying send",
			zap.Int("attempt", i+1),
			zap.String("phone", phone),
			zap.Error(err))
		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * 2 * time.Second)
		}
	}
	return fmt.Errorf("failed to send message: %w", err)
}

func (w *WhatsAppService) IsConnected() bool {
	return w.client.IsConnected()
}

func (w *WhatsAppService) AddEventHandler(handler func(interface{})) {
	w.client.AddEventHandler(handler)
}

func (w *WhatsAppService) Disconnect() {
	w.client.Disconnect()
}

// ExtractText pulls the plain text out of an incoming message event.
func ExtractText(e *waEvents.Message) string {
	if e.Message.GetConversation() != "" {
		return e.Message.GetConversation()
	}
	if e.Message.ExtendedTextMessage != nil {
		return e.Message.ExtendedTextMessage.GetText()
	}
	return ""
}

// stripDevicePart removes the ":device" suffix from a JID user part.
func stripDevicePart(user string) string {
	if i := strings.Index(user, ":"); i != -1 {
		return user[:i]
	}
	return user
}

// normalizePhone reduces a raw phone or JID string to bare digits, the form
// used as the caller identity everywhere else (tenant and preference keys).
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "@"); i != -1 {
		raw = raw[:i]
	}
	raw = stripDevicePart(raw)
	var sb strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NormalizePhone is the exported form used by the handlers.
func NormalizePhone(raw string) string {
	return normalizePhone(raw)
}
