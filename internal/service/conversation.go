package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"triage-assist/internal/domain"
	"triage-assist/internal/oracle"
)

// GreetingMessage abre toda conversacion nueva.
const GreetingMessage = "Hello! I'm your medical assistant. Please describe your symptoms, and I'll help you identify which medical department would be best suited to help you."

var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrEmptySubmission   = fmt.Errorf("%w: empty text", ErrInvalidSubmission)
	ErrRequestInFlight   = fmt.Errorf("%w: request already in flight", ErrInvalidSubmission)
)

type ConversationStatus string

const (
	StatusIdle       ConversationStatus = "idle"
	StatusSubmitting ConversationStatus = "submitting"
	StatusResolved   ConversationStatus = "resolved"
	StatusFailed     ConversationStatus = "failed"
)

// Turn es el par de mensajes que agrega un envio aceptado.
type Turn struct {
	User      domain.Message `json:"user_message"`
	Assistant domain.Message `json:"assistant_message"`
}

// TurnOutcome resume un turno completado para observadores externos.
type TurnOutcome struct {
	SessionID   string
	Department  *domain.Department
	Failed      bool
	Latency     time.Duration
	CompletedAt time.Time
}

// TurnObserver recibe cada turno completado. No puede alterar la conversacion.
type TurnObserver interface {
	TurnCompleted(ctx context.Context, outcome TurnOutcome)
}

// Conversation es el coordinador de una sesion: dueño exclusivo del historial,
// del borrador pendiente y del flag de solicitud en vuelo.
type Conversation struct {
	id         string
	classifier oracle.Classifier
	observer   TurnObserver
	logger     *zap.Logger
	now        func() time.Time

	mu          sync.Mutex
	messages    []domain.Message
	draft       string
	inFlight    bool
	lastOutcome ConversationStatus
}

func NewConversation(id string, classifier oracle.Classifier, observer TurnObserver, logger *zap.Logger) *Conversation {
	return newConversationWithClock(id, classifier, observer, logger, time.Now)
}

func newConversationWithClock(id string, classifier oracle.Classifier, observer TurnObserver, logger *zap.Logger, now func() time.Time) *Conversation {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Conversation{
		id:         id,
		classifier: classifier,
		observer:   observer,
		logger:     logger,
		now:        now,
	}
	c.appendLocked(domain.RoleAssistant, GreetingMessage, nil)
	return c
}

func (c *Conversation) ID() string {
	return c.id
}

// CreatedAt es el instante del saludo inicial.
func (c *Conversation) CreatedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages[0].CreatedAt
}

// Submit agrega el turno del usuario, consulta al oraculo y agrega la
// respuesta. Solo ErrInvalidSubmission rechaza el envio; los fallos del
// oraculo se convierten en un turno con el mensaje de respaldo.
func (c *Conversation) Submit(ctx context.Context, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptySubmission
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return Turn{}, ErrRequestInFlight
	}
	question := c.appendLocked(domain.RoleUser, text, nil)
	c.draft = ""
	c.inFlight = true
	c.mu.Unlock()

	// Sin cancelacion: el turno en vuelo termina aunque el llamador se vaya.
	ctx = context.WithoutCancel(ctx)
	started := c.now()
	res := c.classify(ctx, text)

	if res.Failed && res.Text == "" {
		res.Text = oracle.FallbackMessage
	}

	var dept *domain.Department
	if !res.Failed {
		if d, ok := ExtractDepartment(res.Text); ok {
			dept = &d
		}
	}

	c.mu.Lock()
	reply := c.appendLocked(domain.RoleAssistant, res.Text, dept)
	c.inFlight = false
	if res.Failed {
		c.lastOutcome = StatusFailed
	} else {
		c.lastOutcome = StatusResolved
	}
	c.mu.Unlock()

	if res.Failed {
		c.logger.Warn("turn answered with fallback", zap.String("session_id", c.id), zap.Error(res.Err))
	}

	if c.observer != nil {
		c.observer.TurnCompleted(ctx, TurnOutcome{
			SessionID:   c.id,
			Department:  copyDepartment(dept),
			Failed:      res.Failed,
			Latency:     reply.CreatedAt.Sub(started),
			CompletedAt: reply.CreatedAt,
		})
	}

	return Turn{User: question, Assistant: cloneMessage(reply)}, nil
}

// SubmitDraft envia el contenido del borrador pendiente.
func (c *Conversation) SubmitDraft(ctx context.Context) (Turn, error) {
	return c.Submit(ctx, c.Draft())
}

func (c *Conversation) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

func (c *Conversation) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Messages devuelve una copia del historial en orden de creacion.
func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = cloneMessage(m)
	}
	return out
}

func (c *Conversation) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Status es Submitting mientras hay una solicitud en vuelo; Idle en otro caso.
func (c *Conversation) Status() ConversationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return StatusSubmitting
	}
	return StatusIdle
}

// LastOutcome es Resolved o Failed segun el ultimo turno, vacio si no hubo.
func (c *Conversation) LastOutcome() ConversationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOutcome
}

func (c *Conversation) classify(ctx context.Context, text string) (res oracle.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("classifier panic", zap.String("session_id", c.id), zap.Any("panic", r))
			res = oracle.Result{
				Text:   oracle.FallbackMessage,
				Failed: true,
				Err:    fmt.Errorf("classifier panic: %v", r),
			}
		}
	}()
	if c.classifier == nil {
		return oracle.Result{Text: oracle.FallbackMessage, Failed: true, Err: errors.New("classifier not configured")}
	}
	return c.classifier.Classify(ctx, text)
}

// appendLocked requiere c.mu tomado (o una conversacion aun no publicada).
func (c *Conversation) appendLocked(role domain.Role, text string, dept *domain.Department) domain.Message {
	createdAt := c.now().UTC()
	if n := len(c.messages); n > 0 && createdAt.Before(c.messages[n-1].CreatedAt) {
		createdAt = c.messages[n-1].CreatedAt
	}
	msg := domain.Message{
		ID:         newMessageID(),
		Role:       role,
		Text:       text,
		CreatedAt:  createdAt,
		Department: dept,
	}
	c.messages = append(c.messages, msg)
	return msg
}

func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func cloneMessage(m domain.Message) domain.Message {
	m.Department = copyDepartment(m.Department)
	return m
}

func copyDepartment(d *domain.Department) *domain.Department {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
