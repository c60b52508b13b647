package notify

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ai-rio/lgpd-sentinel/internal/pii"
	ws "github.com/ai-rio/lgpd-sentinel/internal/websocket"
)

// Priority indicates how urgently a notification should be surfaced.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// highConfidence is the escalation threshold. A detection above it that
// includes a critical document type is treated as near-certain exposure.
const highConfidence = 0.9

// Notification is the user-facing payload. Like the audit event, it has
// no field that could carry scanned text or a matched value.
type Notification struct {
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Priority      Priority  `json:"priority"`
	PIITypes      []string  `json:"pii_types"`
	InstanceCount int       `json:"instance_count"`
	Confidence    float64   `json:"confidence"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

// Notifier composes Portuguese user notifications from scan metadata and
// broadcasts them over the WebSocket hub.
type Notifier struct {
	hub    *ws.Hub
	logger *zap.Logger
}

// New creates a notifier. The hub may be nil, in which case notifications
// are composed and logged but not broadcast.
func New(hub *ws.Hub, logger *zap.Logger) *Notifier {
	return &Notifier{
		hub:    hub,
		logger: logger,
	}
}

// typeNamesPT maps catalog types to the names users see.
var typeNamesPT = map[pii.PIIType]string{
	pii.TypeCPF:         "CPF",
	pii.TypeRG:          "RG",
	pii.TypeCNPJ:        "CNPJ",
	pii.TypeEmail:       "e-mail",
	pii.TypePhone:       "telefone",
	pii.TypePassport:    "passaporte",
	pii.TypeCreditCard:  "cartão de crédito",
	pii.TypeBankAccount: "conta bancária",
	pii.TypeAddress:     "endereço",
	pii.TypePostalCode:  "CEP",
}

// Compose builds a notification from a scan result. Priority escalates
// when confidence exceeds 0.9 and a critical type was found.
func Compose(result *pii.DetectionResult, check *pii.ComplianceCheckResult) *Notification {
	types := make([]string, 0, len(result.TypesFound))
	names := make([]string, 0, len(result.TypesFound))
	critical := false
	for _, t := range result.TypesFound {
		types = append(types, string(t))
		if name, ok := typeNamesPT[t]; ok {
			names = append(names, name)
		} else {
			names = append(names, string(t))
		}
		if pii.IsCritical(t) {
			critical = true
		}
	}

	n := &Notification{
		Priority:      PriorityNormal,
		PIITypes:      types,
		InstanceCount: result.TotalInstances(),
		Confidence:    result.ConfidenceScore,
		Action:        check.RecommendedAction,
		Timestamp:     time.Now().UTC(),
	}

	if !result.HasPII {
		n.Title = "Nenhum dado pessoal encontrado"
		n.Message = "Seu documento foi verificado e nenhum dado pessoal foi encontrado."
		return n
	}

	if result.ConfidenceScore > highConfidence && critical {
		n.Priority = PriorityHigh
		n.Title = "Dados pessoais sensíveis detectados"
	} else {
		n.Title = "Dados pessoais detectados"
	}

	plural := "dado pessoal foi identificado e mascarado"
	if n.InstanceCount > 1 {
		plural = "dados pessoais foram identificados e mascarados"
	}

	n.Message = fmt.Sprintf(
		"Para sua proteção conforme a LGPD, %d %s em seu documento (%s). O conteúdo original não foi armazenado.",
		n.InstanceCount, plural, strings.Join(names, ", "))

	return n
}

// Notify composes a notification and broadcasts it.
func (n *Notifier) Notify(result *pii.DetectionResult, check *pii.ComplianceCheckResult) *Notification {
	notification := Compose(result, check)

	n.logger.Info("User notification composed",
		zap.String("priority", string(notification.Priority)),
		zap.Strings("pii_types", notification.PIITypes),
		zap.Int("instances", notification.InstanceCount),
		zap.Float64("confidence", notification.Confidence),
	)

	if n.hub != nil {
		n.hub.BroadcastEvent(ws.Event{
			Type:      ws.EventTypeNotification,
			Timestamp: notification.Timestamp,
			Data:      notification,
		})
	}

	return notification
}
